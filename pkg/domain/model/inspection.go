package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// InspectionID identifies a vistoria (property inspection)
type InspectionID string

// Inspection is a scheduled vistoria tied to a contract
type Inspection struct {
	ID            InspectionID
	UserID        UserID
	ContractID    ContractID
	Title         string
	ScheduledDate string
}

// IsScheduled reports whether the inspection has a date
func (i *Inspection) IsScheduled() bool {
	return strings.TrimSpace(i.ScheduledDate) != ""
}

// Scheduled parses the scheduled date
func (i *Inspection) Scheduled() (time.Time, error) {
	t, err := ParseDeadline(i.ScheduledDate)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid scheduled date", goerr.V("vistoria_id", i.ID))
	}
	return t, nil
}

// ContractNumber infers the contract number from a title such as
// "Contrato 123/2024 - Rua X": the second space separated token.
func (i *Inspection) ContractNumber() string {
	title := i.Title
	if title == "" {
		title = "Contrato"
	}
	parts := strings.Split(title, " ")
	if len(parts) < 2 || parts[1] == "" {
		return "N/A"
	}
	return parts[1]
}
