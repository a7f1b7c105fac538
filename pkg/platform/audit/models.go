// Package audit defines the audit trail emitted from domain logic. Events
// are transport-agnostic so sinks (memory for tests, Kafka in deployment)
// can fan out without the services knowing.
package audit

import "time"

// Category classifies audit events for routing and retention.
type Category string

const (
	// CategorySecurity covers verification failures, exhausted sessions,
	// and anything a monitoring pipeline should alert on.
	CategorySecurity Category = "security"

	// CategoryOperations covers routine attendance activity useful for
	// debugging and reporting.
	CategoryOperations Category = "operations"
)

// Event is one audit trail entry.
type Event struct {
	Category  Category  `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Action    Action    `json:"action"`
	EventID   string    `json:"event_id,omitempty"`
	// MemberID is empty for verification events that never resolved an
	// identity.
	MemberID  string `json:"member_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Action names what happened.
type Action string

const (
	// Attendance events
	ActionCheckInRecorded      Action = "checkin_recorded"
	ActionCheckOutRecorded     Action = "checkout_recorded"
	ActionLateCheckOutRecorded Action = "late_checkout_recorded"
	ActionCheckInRejected      Action = "checkin_rejected"
	ActionCheckOutRejected     Action = "checkout_rejected"

	// Event lifecycle
	ActionEventCreated     Action = "event_created"
	ActionEventClosed      Action = "event_closed"
	ActionEventDeleted     Action = "event_deleted"
	ActionAttendancePurged Action = "attendance_purged"

	// Verification events
	ActionVerificationFailed    Action = "verification_failed"
	ActionVerificationExhausted Action = "verification_exhausted"
	ActionMemberEnrolled        Action = "member_enrolled"
)
