package model

import (
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/google/uuid"
)

// NotificationID identifies a notification
type NotificationID string

// NewNotificationID generates a new notification ID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.Must(uuid.NewV7()).String())
}

// NotificationMetadata links a notification to the entity it is about
type NotificationMetadata struct {
	ContractID    ContractID
	VistoriaID    InspectionID
	DaysRemaining *int
	Date          string
}

// EntityKind selects which metadata field identifies the notified entity
type EntityKind string

const (
	EntityKindContract EntityKind = "contract_id"
	EntityKindVistoria EntityKind = "vistoria_id"
)

// EntityRef points at the entity a notification was emitted for
type EntityRef struct {
	Kind EntityKind
	ID   string
}

// Matches reports whether the metadata refers to the entity
func (m NotificationMetadata) Matches(ref EntityRef) bool {
	switch ref.Kind {
	case EntityKindContract:
		return string(m.ContractID) == ref.ID
	case EntityKindVistoria:
		return string(m.VistoriaID) == ref.ID
	default:
		return false
	}
}

// Notification is a message shown to a user. It is not modified after
// creation except for the read marker.
type Notification struct {
	ID        NotificationID
	UserID    UserID
	Type      types.NotificationType
	Title     string
	Message   string
	Metadata  NotificationMetadata
	Priority  types.NotificationPriority
	Read      bool
	ReadAt    time.Time
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the notification expired before now
func (n *Notification) IsExpired(now time.Time) bool {
	return !n.ExpiresAt.IsZero() && n.ExpiresAt.Before(now)
}

// IsDisposable reports whether cleanup may delete the notification
func (n *Notification) IsDisposable(now time.Time) bool {
	return n.Read || n.IsExpired(now)
}
