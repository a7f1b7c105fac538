package event

import (
	"context"
	"errors"
	"log/slog"
	"time"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/audit"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// AttendancePurger deletes every attendance record for an event. Implemented
// by the attendance record store; the port keeps this package from
// depending on the attendance internals.
type AttendancePurger interface {
	DeleteByEvent(ctx context.Context, eventID id.EventID) (int, error)
}

// Service owns event lifecycle rules: creation, explicit closing, and the
// organizer bulk delete that must cascade to attendance records.
type Service struct {
	store          Store
	purger         AttendancePurger
	logger         *slog.Logger
	auditPublisher audit.Publisher

	defaultCheckInWindow  time.Duration
	defaultCheckOutWindow time.Duration
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

// WithDefaultWindows overrides the 30-minute window defaults applied when a
// create request leaves durations unset.
func WithDefaultWindows(checkIn, checkOut time.Duration) Option {
	return func(s *Service) {
		s.defaultCheckInWindow = checkIn
		s.defaultCheckOutWindow = checkOut
	}
}

func NewService(store Store, purger AttendancePurger, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("event store is required")
	}
	if purger == nil {
		return nil, errors.New("attendance purger is required")
	}
	s := &Service{
		store:                 store,
		purger:                purger,
		defaultCheckInWindow:  DefaultCheckInWindow,
		defaultCheckOutWindow: DefaultCheckOutWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateParams carries validated input for Create.
type CreateParams struct {
	Name           string
	Date           time.Time
	CheckInAnchor  time.Duration
	CheckOutAnchor time.Duration
	CheckInWindow  time.Duration
	CheckOutWindow time.Duration
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*Event, error) {
	if p.CheckInWindow <= 0 {
		p.CheckInWindow = s.defaultCheckInWindow
	}
	if p.CheckOutWindow <= 0 {
		p.CheckOutWindow = s.defaultCheckOutWindow
	}
	ev, err := New(p.Name, p.Date, p.CheckInAnchor, p.CheckOutAnchor, p.CheckInWindow, p.CheckOutWindow, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, ev); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create event")
	}

	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionEventCreated,
		EventID:   ev.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return ev, nil
}

func (s *Service) Get(ctx context.Context, eventID id.EventID) (*Event, error) {
	ev, err := s.store.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get event")
	}
	return ev, nil
}

func (s *Service) List(ctx context.Context) ([]*Event, error) {
	events, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events")
	}
	return events, nil
}

// Close transitions the event to closed. Closing an already-closed event is
// a conflict so organizers notice double submissions. Events never close
// automatically.
func (s *Service) Close(ctx context.Context, eventID id.EventID) (*Event, error) {
	ev, err := s.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.IsClosed() {
		return nil, dErrors.New(dErrors.CodeConflict, "event is already closed")
	}
	if err := s.store.SetStatus(ctx, eventID, id.EventStatusClosed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to close event")
	}
	ev.Status = id.EventStatusClosed

	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionEventClosed,
		EventID:   eventID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return ev, nil
}

// Delete removes the event outright, attendance records included. The
// purge runs first so the in-memory store matches the ON DELETE CASCADE
// the Postgres schema applies.
func (s *Service) Delete(ctx context.Context, eventID id.EventID) error {
	if _, err := s.Get(ctx, eventID); err != nil {
		return err
	}
	if _, err := s.purger.DeleteByEvent(ctx, eventID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge attendance")
	}
	if err := s.store.Delete(ctx, eventID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete event")
	}

	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionEventDeleted,
		EventID:   eventID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return nil
}

// PurgeAttendance is the organizer bulk delete: removes every attendance
// record for the event. Window state is derived, never stored, so deleting
// the records leaves nothing orphaned.
func (s *Service) PurgeAttendance(ctx context.Context, eventID id.EventID) (int, error) {
	if _, err := s.Get(ctx, eventID); err != nil {
		return 0, err
	}
	deleted, err := s.purger.DeleteByEvent(ctx, eventID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to purge attendance")
	}

	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionAttendancePurged,
		EventID:   eventID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "attendance purged", "event_id", eventID, "deleted", deleted)
	}
	return deleted, nil
}
