package order

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is an order's lifecycle label. It is a free-form string on the wire.
type Status string

// Statuses offered by the status updater.
const (
	StatusReceived  Status = "received"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists the selectable statuses in display order.
var Statuses = []Status{
	StatusReceived,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

// Known reports whether s is one of the selectable statuses.
func (s Status) Known() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Upper returns the status in upper case for display.
func (s Status) Upper() string {
	return cases.Upper(language.Und).String(string(s))
}

// Label returns the title-cased option label ("Preparing").
func (s Status) Label() string {
	return cases.Title(language.Und).String(string(s))
}

// ParseStatus accepts exactly one of the selectable statuses.
// Surrounding whitespace is ignored; case is not.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.Known() {
		return "", fmt.Errorf("invalid status %q: must be one of %s", raw, statusList())
	}
	return s, nil
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
