package entity

import (
	"time"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// User is the aggregate root for the account and its settings.
// PasswordHash holds a bcrypt hash and must never leave the server.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Settings     Settings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Settings is the durable contract between the UI and the store.
type Settings struct {
	Theme               Theme               `json:"theme"`
	PriorityFrequencies PriorityFrequencies `json:"priorityFrequencies"`
	PingTemplates       []string            `json:"pingTemplates"`
}

// PriorityFrequencies maps each priority tier to a target cadence in days.
type PriorityFrequencies struct {
	L1 int `json:"L1"`
	L2 int `json:"L2"`
	L3 int `json:"L3"`
}

// For returns the cadence configured for p. Unknown tiers yield 0.
func (f PriorityFrequencies) For(p Priority) int {
	switch p {
	case PriorityL1:
		return f.L1
	case PriorityL2:
		return f.L2
	case PriorityL3:
		return f.L3
	}
	return 0
}

// NamePlaceholder is substituted with the contact name when pinging.
const NamePlaceholder = "{name}"

// DefaultSettings returns the settings a freshly registered user starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeDark,
		PriorityFrequencies: PriorityFrequencies{L1: 7, L2: 14, L3: 30},
		PingTemplates: []string{
			"Hey {name}, it's been a while! How have you been?",
			"Thinking of you, {name}. Hope all is well!",
			"Hi {name}, would love to catch up soon.",
		},
	}
}
