// Package domain holds the typed identifiers and enumerations shared across
// the attendance services. IDs are distinct types over uuid.UUID so the
// compiler rejects cross-entity assignment; construct them via the Parse
// functions at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "rollcall/pkg/domain-errors"
)

// EventID identifies a scheduled gathering.
type EventID uuid.UUID

// MemberID identifies a person eligible to check in.
type MemberID uuid.UUID

// RecordID identifies a single attendance record.
type RecordID uuid.UUID

// IdentityToken is the stable, opaque reference binding a member to an
// enrolled identity template. The reconciliation side never inspects it.
type IdentityToken string

func (t IdentityToken) String() string { return string(t) }

// ParseEventID constructs an EventID from external input.
//
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	if err != nil {
		return EventID{}, err
	}
	return EventID(u), nil
}

// ParseMemberID constructs a MemberID from external input.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID(s, "member id")
	if err != nil {
		return MemberID{}, err
	}
	return MemberID(u), nil
}

// ParseRecordID constructs a RecordID from external input.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s, "record id")
	if err != nil {
		return RecordID{}, err
	}
	return RecordID(u), nil
}

// NewEventID returns a fresh random EventID.
func NewEventID() EventID { return EventID(uuid.New()) }

// NewMemberID returns a fresh random MemberID.
func NewMemberID() MemberID { return MemberID(uuid.New()) }

// NewRecordID returns a fresh random RecordID.
func NewRecordID() RecordID { return RecordID(uuid.New()) }

func (id EventID) String() string  { return uuid.UUID(id).String() }
func (id MemberID) String() string { return uuid.UUID(id).String() }
func (id RecordID) String() string { return uuid.UUID(id).String() }

func (id EventID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id MemberID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" cannot be the nil UUID")
	}
	return u, nil
}
