package event

import (
	"context"

	id "rollcall/pkg/domain"
)

// Store persists events. Get on a missing event returns
// sentinel.ErrNotFound (optionally wrapped).
type Store interface {
	Create(ctx context.Context, ev *Event) error
	Get(ctx context.Context, eventID id.EventID) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	// SetStatus transitions the lifecycle state. Closing is idempotent at
	// the store level; the service decides whether to surface repeats.
	SetStatus(ctx context.Context, eventID id.EventID, status id.EventStatus) error
	Delete(ctx context.Context, eventID id.EventID) error
}
