package application

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

var fieldValidator = validator.New()

var phoneStripper = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{entity.ErrInvalidInput}, args...)...)
}

// NormalizePhone strips spaces, dashes, dots and parentheses and requires an
// E.164 number. Empty input stays empty.
func NormalizePhone(raw string) (string, error) {
	p := phoneStripper.Replace(strings.TrimSpace(raw))
	if p == "" {
		return "", nil
	}
	if strings.HasPrefix(p, "00") {
		p = "+" + p[2:]
	}
	if err := fieldValidator.Var(p, "e164"); err != nil {
		return "", invalid("phoneNumber must be a valid phone number")
	}
	return p, nil
}

// NormalizeProfileLink prepends https:// when no http(s) scheme is given,
// rejects whitespace and other schemes, and requires a host that is
// localhost or contains a dot. Empty input stays empty.
func NormalizeProfileLink(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", nil
	}
	if strings.ContainsAny(s, " \t\r\n\f\v") {
		return "", invalid("profileLink must not contain whitespace")
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", invalid("profileLink must be a valid link")
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalid("profileLink must use http or https")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || (host != "localhost" && !strings.Contains(host, ".")) {
		return "", invalid("profileLink must have a valid host")
	}
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	out := u.String()
	if err := fieldValidator.Var(out, "http_url"); err != nil {
		return "", invalid("profileLink must be a valid link")
	}
	return out, nil
}

// ContactInput is the writable part of a contact. Nil fields are left
// unchanged on update. FrequencyDays sent by clients is ignored; the value
// always comes from the owner's settings.
type ContactInput struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	LastInteraction   *string `json:"lastInteraction"`
	ProfileLink       *string `json:"profileLink"`
	PhoneNumber       *string `json:"phoneNumber"`
	Priority          *string `json:"priority"`
	LastContactedDays *int    `json:"lastContactedDays"`
	PingTemplate      *string `json:"pingTemplate"`
	FrequencyDays     *int    `json:"frequencyDays,omitempty"`
}

// apply writes the input onto c and checks the resulting contact.
func (in ContactInput) apply(c *entity.Contact) error {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.LastInteraction != nil {
		c.LastInteraction = *in.LastInteraction
	}
	if in.ProfileLink != nil {
		link, err := NormalizeProfileLink(*in.ProfileLink)
		if err != nil {
			return err
		}
		c.ProfileLink = link
	}
	if in.PhoneNumber != nil {
		phone, err := NormalizePhone(*in.PhoneNumber)
		if err != nil {
			return err
		}
		c.PhoneNumber = phone
	}
	if in.Priority != nil {
		c.Priority = entity.Priority(strings.ToUpper(strings.TrimSpace(*in.Priority)))
	}
	if in.LastContactedDays != nil {
		c.LastContactedDays = *in.LastContactedDays
	}
	if in.PingTemplate != nil {
		c.PingTemplate = strings.TrimSpace(*in.PingTemplate)
	}
	return checkContact(c)
}

// MaxLastContactedDays is the largest day count the stores can hold.
const MaxLastContactedDays = math.MaxInt32

func checkContact(c *entity.Contact) error {
	switch {
	case c.Name == "":
		return invalid("name is required")
	case !c.Priority.Valid():
		return invalid("priority must be one of L1, L2, L3")
	case c.LastContactedDays < 0:
		return invalid("lastContactedDays must be a non-negative number")
	case c.LastContactedDays > MaxLastContactedDays:
		return invalid("lastContactedDays must be at most %d", MaxLastContactedDays)
	case c.PhoneNumber == "" && c.ProfileLink == "":
		return invalid("enter either a phone number or a profile link")
	}
	return nil
}
