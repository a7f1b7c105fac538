package handler

import (
	"encoding/base64"
	"strings"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
)

// maxLiveSampleBytes bounds the decoded sample a kiosk may post.
const maxLiveSampleBytes = 1 << 20

// CheckRequest is the HTTP request body for POST /attendance/check-in and
// POST /attendance/check-out. Exactly one of live_sample (the face path,
// verified against the identity directory) or member_id (the manual path,
// organizer only) must be present.
type CheckRequest struct {
	EventID    string `json:"event_id"`
	SessionKey string `json:"session_key"`
	LiveSample string `json:"live_sample,omitempty"`
	MemberID   string `json:"member_id,omitempty"`
	MediaRef   string `json:"media_ref,omitempty"`

	// Parsed values (populated by Validate)
	parsedEventID  id.EventID
	parsedMemberID id.MemberID
	parsedSample   []byte
}

// Validate validates and parses the request.
func (r *CheckRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}

	r.EventID = strings.TrimSpace(r.EventID)
	if r.EventID == "" {
		return dErrors.New(dErrors.CodeValidation, "event_id is required")
	}
	eventID, err := id.ParseEventID(r.EventID)
	if err != nil {
		return err
	}
	r.parsedEventID = eventID

	hasSample := r.LiveSample != ""
	hasMember := strings.TrimSpace(r.MemberID) != ""
	switch {
	case hasSample && hasMember:
		return dErrors.New(dErrors.CodeValidation, "live_sample and member_id are mutually exclusive")
	case !hasSample && !hasMember:
		return dErrors.New(dErrors.CodeValidation, "either live_sample or member_id is required")
	}

	if hasSample {
		r.SessionKey = strings.TrimSpace(r.SessionKey)
		if r.SessionKey == "" {
			return dErrors.New(dErrors.CodeValidation, "session_key is required with live_sample")
		}
		sample, err := base64.StdEncoding.DecodeString(r.LiveSample)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "live_sample must be base64 encoded")
		}
		if len(sample) == 0 || len(sample) > maxLiveSampleBytes {
			return dErrors.New(dErrors.CodeValidation, "live_sample size is out of range")
		}
		r.parsedSample = sample
		return nil
	}

	memberID, err := id.ParseMemberID(strings.TrimSpace(r.MemberID))
	if err != nil {
		return err
	}
	r.parsedMemberID = memberID
	return nil
}

// Manual reports whether the request uses the organizer-only member
// reference path.
func (r *CheckRequest) Manual() bool { return r.parsedSample == nil }
