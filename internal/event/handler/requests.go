package handler

import (
	"strings"
	"time"

	"rollcall/internal/event"
	dErrors "rollcall/pkg/domain-errors"
)

// CreateEventRequest is the HTTP request body for POST /events.
type CreateEventRequest struct {
	Name           string `json:"name"`
	Date           string `json:"date"`
	CheckInAnchor  string `json:"check_in_anchor"`
	CheckOutAnchor string `json:"check_out_anchor"`
	CheckInWindow  int    `json:"check_in_window_minutes,omitempty"`
	CheckOutWindow int    `json:"check_out_window_minutes,omitempty"`

	// Parsed values (populated by Validate)
	parsedDate           time.Time
	parsedCheckInAnchor  time.Duration
	parsedCheckOutAnchor time.Duration
}

// Validate validates and parses the request.
func (r *CreateEventRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
	}

	date, err := time.ParseInLocation("2006-01-02", r.Date, time.UTC)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	r.parsedDate = date

	if r.parsedCheckInAnchor, err = event.ParseAnchor(r.CheckInAnchor); err != nil {
		return err
	}
	if r.parsedCheckOutAnchor, err = event.ParseAnchor(r.CheckOutAnchor); err != nil {
		return err
	}

	if r.CheckInWindow < 0 || r.CheckOutWindow < 0 {
		return dErrors.New(dErrors.CodeValidation, "window durations must be positive")
	}
	return nil
}

// Params converts the request to the service input.
func (r *CreateEventRequest) Params() event.CreateParams {
	return event.CreateParams{
		Name:           r.Name,
		Date:           r.parsedDate,
		CheckInAnchor:  r.parsedCheckInAnchor,
		CheckOutAnchor: r.parsedCheckOutAnchor,
		CheckInWindow:  time.Duration(r.CheckInWindow) * time.Minute,
		CheckOutWindow: time.Duration(r.CheckOutWindow) * time.Minute,
	}
}
