package handler

import (
	"time"

	"rollcall/internal/event"
)

// EventResponse is the wire shape of one event.
type EventResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Date           string    `json:"date"`
	CheckInAnchor  string    `json:"check_in_anchor"`
	CheckOutAnchor string    `json:"check_out_anchor"`
	CheckInWindow  int       `json:"check_in_window_minutes"`
	CheckOutWindow int       `json:"check_out_window_minutes"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// PurgeResponse is the HTTP response for attendance purges.
type PurgeResponse struct {
	EventID string `json:"event_id"`
	Deleted int    `json:"deleted"`
}

// FromEvent converts a domain event to its wire shape.
func FromEvent(ev *event.Event) *EventResponse {
	return &EventResponse{
		ID:             ev.ID.String(),
		Name:           ev.Name,
		Date:           ev.Date.Format("2006-01-02"),
		CheckInAnchor:  event.FormatAnchor(ev.CheckInAnchor),
		CheckOutAnchor: event.FormatAnchor(ev.CheckOutAnchor),
		CheckInWindow:  int(ev.CheckInWindow.Minutes()),
		CheckOutWindow: int(ev.CheckOutWindow.Minutes()),
		Status:         ev.Status.String(),
		CreatedAt:      ev.CreatedAt,
	}
}
