package interfaces

import (
	"context"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
)

// InspectionRepository provides read access to vistorias
type InspectionRepository interface {
	// Put saves an inspection (upsert)
	Put(ctx context.Context, inspection *model.Inspection) error

	// ListScheduled returns the user's inspections that carry a scheduled date
	ListScheduled(ctx context.Context, userID model.UserID) ([]*model.Inspection, error)
}
