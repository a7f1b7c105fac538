// Package record stores attendance records. The store is the single point
// of mutual exclusion for the uniqueness invariant: creates and check-out
// updates are atomic conditional writes, never read-then-write sequences.
package record

import (
	"context"
	"time"

	"rollcall/internal/attendance/models"
	id "rollcall/pkg/domain"
)

// Store is consumed by the reconciliation engine.
//
// CreateIfAbsent inserts the record only if no row exists for its
// (event, member) pair, returning sentinel.ErrConflict otherwise.
//
// SetCheckOutIfUnset stamps the check-out time on the pair's record only if
// the record exists and has no check-out yet, recomputing status in the
// same write (late when check-in is null, present otherwise). It returns
// sentinel.ErrPreconditionFailed when no row matched.
//
// Find returns sentinel.ErrNotFound for a missing pair.
type Store interface {
	CreateIfAbsent(ctx context.Context, rec *models.AttendanceRecord) error
	SetCheckOutIfUnset(ctx context.Context, eventID id.EventID, memberID id.MemberID, at time.Time) (*models.AttendanceRecord, error)
	Find(ctx context.Context, eventID id.EventID, memberID id.MemberID) (*models.AttendanceRecord, error)
	ListByEvent(ctx context.Context, eventID id.EventID) ([]*models.AttendanceRecord, error)
	DeleteByEvent(ctx context.Context, eventID id.EventID) (int, error)
}
