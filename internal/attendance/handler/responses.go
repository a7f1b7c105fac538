package handler

import (
	"time"

	"rollcall/internal/attendance/models"
)

// RecordResponse is the wire shape of one attendance record.
type RecordResponse struct {
	ID       string     `json:"id"`
	EventID  string     `json:"event_id"`
	MemberID string     `json:"member_id"`
	TimeIn   *time.Time `json:"time_in"`
	TimeOut  *time.Time `json:"time_out"`
	Status   string     `json:"status"`
	// NoTimeIn marks the late path so downstream surfaces render
	// "No Time In" instead of a silent late.
	NoTimeIn bool `json:"no_time_in"`
}

// CheckResponse is the HTTP response for check-in and check-out calls.
type CheckResponse struct {
	Outcome string          `json:"outcome"`
	Message string          `json:"message,omitempty"`
	Record  *RecordResponse `json:"record,omitempty"`
	// RemainingAttempts accompanies verification_failed only.
	RemainingAttempts *int `json:"remaining_attempts,omitempty"`
}

// ReportResponse is the HTTP response for GET /events/{id}/attendance.
type ReportResponse struct {
	EventID string           `json:"event_id"`
	Records []RecordResponse `json:"records"`
}

// FromRecord converts a domain record to its wire shape.
func FromRecord(rec *models.AttendanceRecord) *RecordResponse {
	if rec == nil {
		return nil
	}
	return &RecordResponse{
		ID:       rec.ID.String(),
		EventID:  rec.EventID.String(),
		MemberID: rec.MemberID.String(),
		TimeIn:   rec.CheckInAt,
		TimeOut:  rec.CheckOutAt,
		Status:   rec.Status.String(),
		NoTimeIn: rec.NoTimeIn(),
	}
}

// outcomeMessages are the user-facing explanations per result kind.
var outcomeMessages = map[models.Outcome]string{
	models.OutcomeCreated:               "attendance recorded",
	models.OutcomeUpdated:               "departure recorded",
	models.OutcomeDuplicateCheckIn:      "already checked in",
	models.OutcomeDuplicateCheckOut:     "already checked out",
	models.OutcomeAlreadyCheckedOut:     "cannot check in after a recorded check-out",
	models.OutcomeEventClosed:           "event is closed",
	models.OutcomeWindowInactive:        "no attendance window is active",
	models.OutcomeCheckOutBeforeCheckIn: "departure time precedes the recorded arrival",
}

// FromResult converts an engine result to its wire shape.
func FromResult(res models.Result) *CheckResponse {
	return &CheckResponse{
		Outcome: res.Outcome.String(),
		Message: outcomeMessages[res.Outcome],
		Record:  FromRecord(res.Record),
	}
}
