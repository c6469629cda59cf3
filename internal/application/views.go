package application

import (
	"time"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
	"github.com/oksasatya/ordo-prm/internal/domain/timing"
)

// UserView is the public shape of a user. It never carries the password hash.
type UserView struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Settings  entity.Settings `json:"settings"`
	CreatedAt time.Time       `json:"createdAt"`
}

func NewUserView(u *entity.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Settings:  u.Settings,
		CreatedAt: u.CreatedAt,
	}
}

// ContactView is a contact plus its derived timing status.
type ContactView struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	LastInteraction   string          `json:"lastInteraction"`
	ProfileLink       string          `json:"profileLink"`
	PhoneNumber       string          `json:"phoneNumber"`
	Priority          entity.Priority `json:"priority"`
	FrequencyDays     int             `json:"frequencyDays"`
	LastContactedDays int             `json:"lastContactedDays"`
	PingTemplate      *string         `json:"pingTemplate"`
	Status            timing.Status   `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func NewContactView(c entity.Contact, recentlyMarked bool) ContactView {
	v := ContactView{
		ID:                c.ID,
		UserID:            c.UserID,
		Name:              c.Name,
		Description:       c.Description,
		LastInteraction:   c.LastInteraction,
		ProfileLink:       c.ProfileLink,
		PhoneNumber:       c.PhoneNumber,
		Priority:          c.Priority,
		FrequencyDays:     c.FrequencyDays,
		LastContactedDays: c.LastContactedDays,
		Status:            timing.Of(c, recentlyMarked),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if c.PingTemplate != "" {
		tpl := c.PingTemplate
		v.PingTemplate = &tpl
	}
	return v
}
