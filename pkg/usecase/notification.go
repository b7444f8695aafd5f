package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// NotificationUseCase serves a user's notification inbox
type NotificationUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewNotificationUseCase(repo interfaces.Repository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, now: time.Now}
}

// List returns the user's notifications, newest first
func (uc *NotificationUseCase) List(ctx context.Context, userID model.UserID, unreadOnly bool) ([]*model.Notification, error) {
	if userID == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "user ID is required")
	}

	notifications, err := uc.repo.Notification().List(ctx, userID, unreadOnly)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list notifications", goerr.V("user_id", userID))
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read
func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID model.UserID, id model.NotificationID) error {
	if userID == "" || id == "" {
		return goerr.Wrap(ErrInvalidInput, "user ID and notification ID are required")
	}

	if err := uc.repo.Notification().MarkRead(ctx, userID, id, uc.now().UTC()); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrNotificationNotFound, "cannot mark notification as read",
				goerr.V("user_id", userID), goerr.V("notification_id", id))
		}
		return goerr.Wrap(err, "failed to mark notification as read",
			goerr.V("user_id", userID), goerr.V("notification_id", id))
	}
	return nil
}
