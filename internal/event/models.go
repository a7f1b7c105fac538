// Package event owns scheduled-gathering metadata: the calendar date, the
// two time-of-day anchors, the window durations, and the open/closed
// lifecycle the reconciliation engine enforces.
package event

import (
	"time"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
)

// Defaults for newly created events.
const (
	DefaultCheckInWindow  = 30 * time.Minute
	DefaultCheckOutWindow = 30 * time.Minute
)

// Event is a scheduled gathering members check in to.
//
// Date is midnight UTC of the calendar date; the anchors are offsets from
// that midnight. Once Status is closed no attendance record for the event
// may be created or mutated.
type Event struct {
	ID             id.EventID
	Name           string
	Date           time.Time
	CheckInAnchor  time.Duration
	CheckOutAnchor time.Duration
	CheckInWindow  time.Duration
	CheckOutWindow time.Duration
	Status         id.EventStatus
	CreatedAt      time.Time
}

// IsClosed reports whether the event has been explicitly closed.
func (e *Event) IsClosed() bool {
	return e.Status == id.EventStatusClosed
}

// New validates and constructs an open event.
func New(name string, date time.Time, checkInAnchor, checkOutAnchor, checkInWindow, checkOutWindow time.Duration, now time.Time) (*Event, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "event name cannot be empty")
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "event date is required")
	}
	if checkInAnchor < 0 || checkInAnchor >= 24*time.Hour {
		return nil, dErrors.New(dErrors.CodeValidation, "check-in anchor must be a time of day")
	}
	if checkOutAnchor < 0 || checkOutAnchor >= 24*time.Hour {
		return nil, dErrors.New(dErrors.CodeValidation, "check-out anchor must be a time of day")
	}
	if checkInWindow <= 0 {
		checkInWindow = DefaultCheckInWindow
	}
	if checkOutWindow <= 0 {
		checkOutWindow = DefaultCheckOutWindow
	}
	return &Event{
		ID:             id.NewEventID(),
		Name:           name,
		Date:           date.UTC().Truncate(24 * time.Hour),
		CheckInAnchor:  checkInAnchor,
		CheckOutAnchor: checkOutAnchor,
		CheckInWindow:  checkInWindow,
		CheckOutWindow: checkOutWindow,
		Status:         id.EventStatusOpen,
		CreatedAt:      now,
	}, nil
}

// ParseAnchor parses a "HH:MM" time-of-day into an offset from midnight.
func ParseAnchor(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "anchor must be HH:MM")
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatAnchor renders an offset from midnight as "HH:MM".
func FormatAnchor(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d/time.Minute) % 60
	return time.Date(0, 1, 1, h, m, 0, 0, time.UTC).Format("15:04")
}
