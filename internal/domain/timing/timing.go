// Package timing derives a contact's display status from its cadence and
// resolves the message used when pinging it. Nothing here touches storage.
package timing

import (
	"errors"
	"strings"

	"github.com/oksasatya/ordo-prm/internal/domain/entity"
)

type Status string

const (
	StatusContacted Status = "CONTACTED"
	StatusOverdue   Status = "OVERDUE"
	StatusReaching  Status = "REACHING"
	StatusOK        Status = "OK"
)

// ReachingWindow is how many days before the due date a contact turns REACHING.
const ReachingWindow = 2

// Of evaluates the status of c. recentlyMarked is the transient client-side
// flag set right after marking a contact as contacted.
func Of(c entity.Contact, recentlyMarked bool) Status {
	return Compute(c.LastContactedDays, c.FrequencyDays, recentlyMarked)
}

// Compute is Of over the two raw counters.
//
// OVERDUE is checked with a strict comparison before the REACHING window, so
// lastContactedDays == frequencyDays is REACHING.
func Compute(lastContactedDays, frequencyDays int, recentlyMarked bool) Status {
	if recentlyMarked || lastContactedDays == 0 {
		return StatusContacted
	}
	if lastContactedDays > frequencyDays {
		return StatusOverdue
	}
	threshold := max(frequencyDays-ReachingWindow, 0)
	if lastContactedDays >= threshold && lastContactedDays <= frequencyDays {
		return StatusReaching
	}
	return StatusOK
}

// ParseStatus accepts a status name case-insensitively. DUE is an alias of
// OVERDUE. ok is false for anything else, including ALL.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CONTACTED":
		return StatusContacted, true
	case "OVERDUE", "DUE":
		return StatusOverdue, true
	case "REACHING":
		return StatusReaching, true
	case "OK":
		return StatusOK, true
	}
	return "", false
}

var ErrNoTemplate = errors.New("no ping template configured")

// PingMessage picks the contact's own template, else templates[selected],
// else templates[0], and replaces the first {name} with the contact name.
// A negative or out-of-range selected index falls through to the first template.
func PingMessage(c entity.Contact, templates []string, selected int) (string, error) {
	tpl := c.PingTemplate
	if tpl == "" && selected >= 0 && selected < len(templates) {
		tpl = templates[selected]
	}
	if tpl == "" && len(templates) > 0 {
		tpl = templates[0]
	}
	if tpl == "" {
		return "", ErrNoTemplate
	}
	return strings.Replace(tpl, entity.NamePlaceholder, c.Name, 1), nil
}
