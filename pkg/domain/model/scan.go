package model

import "time"

// ScanResult aggregates a notification scan run
type ScanResult struct {
	NotificationsCreated int
	Errors               int
	CleanedCount         int
	FinishedAt           time.Time
}
