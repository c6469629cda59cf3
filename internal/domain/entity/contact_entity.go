package entity

import "time"

type Priority string

const (
	PriorityL1 Priority = "L1"
	PriorityL2 Priority = "L2"
	PriorityL3 Priority = "L3"
)

// Valid reports whether p is one of the three cadence tiers.
func (p Priority) Valid() bool {
	return p == PriorityL1 || p == PriorityL2 || p == PriorityL3
}

// Contact is a person tracked by exactly one owning user.
// FrequencyDays is copied from the owner's settings when the contact is
// created or edited; it is not recomputed when settings change later.
type Contact struct {
	ID                string
	UserID            string
	Name              string
	Description       string
	LastInteraction   string
	ProfileLink       string
	PhoneNumber       string
	Priority          Priority
	FrequencyDays     int
	LastContactedDays int
	PingTemplate      string // empty means no override
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OwnedBy reports whether userID owns the contact.
func (c *Contact) OwnedBy(userID string) bool {
	return c != nil && userID != "" && c.UserID == userID
}
