package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	User() UserRepository
	Contract() ContractRepository
	Inspection() InspectionRepository
	Notification() NotificationRepository

	Close() error
}
