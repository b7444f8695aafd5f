package interfaces

import (
	"context"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
)

// NotificationRepository persists notifications.
//
// FindRecent followed by Create is not atomic: two concurrent scans may
// both miss the existing notification and create a duplicate.
type NotificationRepository interface {
	// Create stores a new notification. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// FindRecent returns notifications of the user about ref, of one of the
	// given types, created at or after since
	FindRecent(ctx context.Context, userID model.UserID, ref model.EntityRef, notificationTypes []types.NotificationType, since time.Time) ([]*model.Notification, error)

	// List returns the user's notifications, newest first
	List(ctx context.Context, userID model.UserID, unreadOnly bool) ([]*model.Notification, error)

	// MarkRead sets the read marker
	MarkRead(ctx context.Context, userID model.UserID, id model.NotificationID, at time.Time) error

	// CleanupExpired deletes expired and read notifications and returns how
	// many were deleted. On partial failure the count covers only confirmed
	// deletes and the error is non-nil.
	CleanupExpired(ctx context.Context, now time.Time) (int, error)
}
