package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type notificationRepository struct {
	mu            sync.RWMutex
	notifications map[model.NotificationID]*model.Notification
}

func newNotificationRepository() *notificationRepository {
	return &notificationRepository{
		notifications: make(map[model.NotificationID]*model.Notification),
	}
}

func copyNotification(n *model.Notification) *model.Notification {
	copied := *n
	if n.Metadata.DaysRemaining != nil {
		days := *n.Metadata.DaysRemaining
		copied.Metadata.DaysRemaining = &days
	}
	return &copied
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	if n == nil || n.UserID == "" {
		return nil, goerr.New("notification owner is required")
	}
	if !n.Type.IsValid() {
		return nil, goerr.New("invalid notification type", goerr.V("type", n.Type))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyNotification(n)
	if created.ID == "" {
		created.ID = model.NewNotificationID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if created.Priority == "" {
		created.Priority = types.NotificationPriorityNormal
	}
	if _, exists := r.notifications[created.ID]; exists {
		return nil, goerr.New("notification already exists", goerr.V("id", created.ID))
	}

	r.notifications[created.ID] = created
	return copyNotification(created), nil
}

func (r *notificationRepository) FindRecent(ctx context.Context, userID model.UserID, ref model.EntityRef, notificationTypes []types.NotificationType, since time.Time) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Notification
	for _, n := range r.notifications {
		if n.UserID != userID || !n.Metadata.Matches(ref) {
			continue
		}
		if !slices.Contains(notificationTypes, n.Type) {
			continue
		}
		if n.CreatedAt.Before(since) {
			continue
		}
		result = append(result, copyNotification(n))
	}

	return result, nil
}

func (r *notificationRepository) List(ctx context.Context, userID model.UserID, unreadOnly bool) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*model.Notification{}
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, copyNotification(n))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID model.UserID, id model.NotificationID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return goerr.Wrap(ErrNotFound, "notification not found", goerr.V("id", id), goerr.V("user_id", userID))
	}

	n.Read = true
	n.ReadAt = at
	return nil
}

func (r *notificationRepository) CleanupExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, n := range r.notifications {
		if n.IsDisposable(now) {
			delete(r.notifications, id)
			deleted++
		}
	}

	return deleted, nil
}
