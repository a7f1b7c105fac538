package testutil

import (
	"context"
	"time"

	"rollcall/pkg/requestcontext"
)

// ContextAt returns a context whose request-scoped clock is pinned to t, so
// window and stamp assertions are deterministic.
func ContextAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

// MustTime parses an RFC3339 timestamp, panicking on bad fixtures.
func MustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
