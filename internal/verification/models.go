// Package verification bounds how many consecutive identity-verification
// failures a single check-in interaction tolerates before it is aborted.
package verification

import id "rollcall/pkg/domain"

// DefaultAttemptLimit is the number of consecutive failures tolerated
// before a session is exhausted.
const DefaultAttemptLimit = 3

// SessionState classifies an attempt session.
type SessionState string

const (
	SessionActive    SessionState = "active"
	SessionExhausted SessionState = "exhausted"
)

// Session is the ephemeral per-interaction attempt counter. It is never
// persisted beyond the active check-in interaction; stores hold it under a
// TTL and success destroys it.
type Session struct {
	Key      string
	Failures int
	Limit    int
}

// State reports Active while failures remain below the limit. Exhausted is
// terminal for the session.
func (s Session) State() SessionState {
	if s.Failures >= s.Limit {
		return SessionExhausted
	}
	return SessionActive
}

// Remaining returns the attempts left before exhaustion.
func (s Session) Remaining() int {
	if r := s.Limit - s.Failures; r > 0 {
		return r
	}
	return 0
}

// Outcome classifies a verification attempt.
type Outcome string

const (
	OutcomeVerified  Outcome = "verified"
	OutcomeFailed    Outcome = "verification_failed"
	OutcomeExhausted Outcome = "verification_exhausted"
	// OutcomeNoEnrolledIdentity means zero templates were available. It is
	// distinct from a failed match and does not consume an attempt.
	OutcomeNoEnrolledIdentity Outcome = "no_enrolled_identity"
)

func (o Outcome) String() string { return string(o) }

// Result is the pattern-matchable outcome of one attempt.
type Result struct {
	Outcome Outcome
	// Token is set only when Outcome is OutcomeVerified.
	Token id.IdentityToken
	// Remaining is set when Outcome is OutcomeFailed.
	Remaining int
}
