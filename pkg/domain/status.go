package domain

import dErrors "rollcall/pkg/domain-errors"

// EventStatus is the lifecycle state of an event.
// Invariant: once closed, no attendance record for the event may be created
// or mutated.
type EventStatus string

const (
	EventStatusOpen   EventStatus = "open"
	EventStatusClosed EventStatus = "closed"
)

// ParseEventStatus constructs an EventStatus from external input.
func ParseEventStatus(s string) (EventStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "event status cannot be empty")
	}
	st := EventStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid event status: must be 'open' or 'closed'")
	}
	return st, nil
}

func (s EventStatus) IsValid() bool {
	return s == EventStatusOpen || s == EventStatusClosed
}

func (s EventStatus) String() string { return string(s) }

// RecordStatus tags an attendance record.
//
// A record with only a check-in stamp is provisionally present; reporting
// treats it as present. A record with only a check-out stamp is late ("no
// time in"). Absent is reserved for records synthesized when an event is
// reported on, never written by the reconciliation engine.
type RecordStatus string

const (
	RecordStatusPresent RecordStatus = "present"
	RecordStatusLate    RecordStatus = "late"
	RecordStatusAbsent  RecordStatus = "absent"
)

// ParseRecordStatus constructs a RecordStatus from external input.
func ParseRecordStatus(s string) (RecordStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "record status cannot be empty")
	}
	st := RecordStatus(s)
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid record status")
	}
	return st, nil
}

func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordStatusPresent, RecordStatusLate, RecordStatusAbsent:
		return true
	}
	return false
}

func (s RecordStatus) String() string { return string(s) }
