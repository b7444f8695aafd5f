package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// ContractID identifies a saved contract
type ContractID string

// Contract is a saved rental contract. TerminationDate is kept as entered
// (YYYY-MM-DD or RFC 3339) and parsed when a deadline is needed.
type Contract struct {
	ID              ContractID
	UserID          UserID
	ContractNumber  string
	TerminationDate string
}

// HasDeadline reports whether the contract carries a termination date
func (c *Contract) HasDeadline() bool {
	return strings.TrimSpace(c.TerminationDate) != ""
}

// Deadline parses the termination date
func (c *Contract) Deadline() (time.Time, error) {
	t, err := ParseDeadline(c.TerminationDate)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid termination date", goerr.V("contract_id", c.ID))
	}
	return t, nil
}

// DisplayNumber returns the contract number or "N/A" when it is missing
func (c *Contract) DisplayNumber() string {
	if n := strings.TrimSpace(c.ContractNumber); n != "" {
		return n
	}
	return "N/A"
}

// ParseDeadline parses a date-only value as midnight UTC, or a full RFC 3339 timestamp
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, goerr.New("deadline is empty")
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, goerr.New("unsupported deadline format", goerr.V("value", s))
}
