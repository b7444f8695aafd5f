package types

import "fmt"

// NotificationPriority is the urgency of a notification
type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

// IsValid checks if the priority is known
func (p NotificationPriority) IsValid() bool {
	switch p {
	case NotificationPriorityNormal, NotificationPriorityHigh, NotificationPriorityUrgent:
		return true
	default:
		return false
	}
}

// IsElevated reports whether the priority is high or urgent
func (p NotificationPriority) IsElevated() bool {
	return p == NotificationPriorityHigh || p == NotificationPriorityUrgent
}

func (p NotificationPriority) String() string {
	return string(p)
}

// ParseNotificationPriority parses a string into a NotificationPriority
func ParseNotificationPriority(s string) (NotificationPriority, error) {
	p := NotificationPriority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid notification priority: %s", s)
	}
	return p, nil
}
