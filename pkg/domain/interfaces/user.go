package interfaces

import (
	"context"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
)

// UserRepository provides access to the accounts visited by the notification scan
type UserRepository interface {
	// Put saves a user (upsert)
	Put(ctx context.Context, user *model.User) error

	// ListActive returns every active user
	ListActive(ctx context.Context) ([]*model.User, error)
}
