// Package models defines the attendance record and the tagged results the
// reconciliation engine returns. Failure kinds are structural outcomes, not
// Go errors: callers pattern-match on the Outcome.
package models

import (
	"time"

	id "rollcall/pkg/domain"
)

// AttendanceRecord is the unit the reconciliation engine protects: at most
// one exists per (event, member) pair at any time.
//
// Invariants:
//   - check-out set with check-in null  => status late ("no time in")
//   - both stamps set                   => status present
//   - check-out, when both exist, is never earlier than check-in
type AttendanceRecord struct {
	ID       id.RecordID  `json:"id"`
	EventID  id.EventID   `json:"event_id"`
	MemberID id.MemberID  `json:"member_id"`
	// CheckInAt is null for the late (check-out only) path.
	CheckInAt  *time.Time      `json:"check_in_at,omitempty"`
	CheckOutAt *time.Time      `json:"check_out_at,omitempty"`
	Status     id.RecordStatus `json:"status"`
	// MediaRef optionally points at the sample captured at check-in.
	MediaRef  string    `json:"media_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *AttendanceRecord) HasCheckIn() bool  { return r.CheckInAt != nil }
func (r *AttendanceRecord) HasCheckOut() bool { return r.CheckOutAt != nil }

// NoTimeIn reports the late reconciliation path: a check-out recorded with
// no prior check-in. Reports must render these as "No Time In", never as a
// silent late.
func (r *AttendanceRecord) NoTimeIn() bool {
	return r.CheckOutAt != nil && r.CheckInAt == nil
}

// DeriveStatus computes the status the stamps imply.
func (r *AttendanceRecord) DeriveStatus() id.RecordStatus {
	if r.NoTimeIn() {
		return id.RecordStatusLate
	}
	return id.RecordStatusPresent
}

// Outcome tags the result of one reconciliation call.
type Outcome string

const (
	// Success outcomes
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"

	// Rejections
	OutcomeEventClosed           Outcome = "event_closed"
	OutcomeWindowInactive        Outcome = "window_inactive"
	OutcomeDuplicateCheckIn      Outcome = "duplicate_check_in"
	OutcomeDuplicateCheckOut     Outcome = "duplicate_check_out"
	OutcomeAlreadyCheckedOut     Outcome = "already_checked_out"
	OutcomeCheckOutBeforeCheckIn Outcome = "check_out_before_check_in"
)

// Success reports whether the call mutated the store.
func (o Outcome) Success() bool {
	return o == OutcomeCreated || o == OutcomeUpdated
}

// Duplicate reports the harmless already-recorded outcomes; the UI treats
// these as a no-op success rather than an alarming error.
func (o Outcome) Duplicate() bool {
	return o == OutcomeDuplicateCheckIn || o == OutcomeDuplicateCheckOut
}

func (o Outcome) String() string { return string(o) }

// Result is the engine's answer to one check-in or check-out call.
type Result struct {
	Outcome Outcome
	// Record is the created or updated record on success, and the existing
	// record on Duplicate* outcomes so callers can show what is on file.
	Record *AttendanceRecord
}
