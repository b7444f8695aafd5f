package types

import "fmt"

// NotificationType classifies a notification emitted for a deadline
type NotificationType string

const (
	NotificationTypeContractExpiring      NotificationType = "contract_expiring"
	NotificationTypeContractExpiring7Days NotificationType = "contract_expiring_7days"
	NotificationTypeContractExpiring1Day  NotificationType = "contract_expiring_1day"
	NotificationTypeVistoriaReminder      NotificationType = "vistoria_reminder"
	NotificationTypeVistoriaToday         NotificationType = "vistoria_today"
)

// ContractExpiringTypes is the type class deduplicated together for contracts
func ContractExpiringTypes() []NotificationType {
	return []NotificationType{
		NotificationTypeContractExpiring,
		NotificationTypeContractExpiring7Days,
		NotificationTypeContractExpiring1Day,
	}
}

// VistoriaTypes is the type class deduplicated together for inspections
func VistoriaTypes() []NotificationType {
	return []NotificationType{
		NotificationTypeVistoriaReminder,
		NotificationTypeVistoriaToday,
	}
}

// IsValid checks if the notification type is known
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeContractExpiring,
		NotificationTypeContractExpiring7Days,
		NotificationTypeContractExpiring1Day,
		NotificationTypeVistoriaReminder,
		NotificationTypeVistoriaToday:
		return true
	default:
		return false
	}
}

func (t NotificationType) String() string {
	return string(t)
}

// ParseNotificationType parses a string into a NotificationType
func ParseNotificationType(s string) (NotificationType, error) {
	t := NotificationType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return t, nil
}
