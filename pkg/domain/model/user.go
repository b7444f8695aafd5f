package model

// UserID identifies an account owning contracts, inspections and notifications
type UserID string

// User is an active account visited by the notification scan
type User struct {
	ID    UserID
	Email string
}
