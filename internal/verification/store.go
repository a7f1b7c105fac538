package verification

import "context"

// SessionStore tracks consecutive-failure counts per session key. Counts
// expire on their own after the store's TTL so an abandoned interaction
// never pins state.
type SessionStore interface {
	// RecordFailure atomically increments the failure count for key and
	// returns the new count.
	RecordFailure(ctx context.Context, key string) (int, error)

	// Failures returns the current count, zero when the key is unknown or
	// expired.
	Failures(ctx context.Context, key string) (int, error)

	// Reset destroys the session. Resetting an unknown key is a no-op.
	Reset(ctx context.Context, key string) error
}
