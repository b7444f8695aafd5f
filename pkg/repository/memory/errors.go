package memory

import "github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"

var ErrNotFound = interfaces.ErrNotFound
