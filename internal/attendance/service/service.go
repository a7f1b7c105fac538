// Package service holds the reconciliation engine: the sole authority that
// creates or mutates attendance records. Identity verification happens
// before this layer; the engine receives an already-resolved member.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"rollcall/internal/attendance/metrics"
	"rollcall/internal/attendance/models"
	"rollcall/internal/attendance/store/record"
	"rollcall/internal/attendance/window"
	"rollcall/internal/event"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/audit"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// EventProvider supplies event metadata. Implemented by the event service;
// the port keeps this package independent of event lifecycle logic.
type EventProvider interface {
	Get(ctx context.Context, eventID id.EventID) (*event.Event, error)
}

// Service is the reconciliation engine.
type Service struct {
	events         EventProvider
	records        record.Store
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher audit.Publisher
	tracer         trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func New(events EventProvider, records record.Store, opts ...Option) (*Service, error) {
	if events == nil {
		return nil, errors.New("event provider is required")
	}
	if records == nil {
		return nil, errors.New("record store is required")
	}
	s := &Service{
		events:  events,
		records: records,
		tracer:  otel.Tracer("rollcall/attendance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckIn reconciles a verified arrival at capturedAt.
//
// Outcomes follow one documented rule set: EventClosed for a closed event;
// WindowInactive when neither window is active; when only the check-out
// window is active the call routes to CheckOut (the member arrived during
// the grace window and never had a chance to check in); when both windows
// are active the tie-break prefers check-in if the member has no record
// yet, check-out otherwise.
//
// The returned error is non-nil only for infrastructure failures (unknown
// event, store unavailable); every business rejection is a Result kind.
func (s *Service) CheckIn(ctx context.Context, eventID id.EventID, memberID id.MemberID, capturedAt time.Time, mediaRef string) (models.Result, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.CheckIn",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer span.End()

	ev, err := s.getEvent(ctx, eventID)
	if err != nil {
		return models.Result{}, err
	}
	if ev.IsClosed() {
		return s.reject(ctx, "check_in", eventID, memberID, models.OutcomeEventClosed), nil
	}

	st := window.At(ev, capturedAt)
	switch {
	case st.Inactive():
		return s.reject(ctx, "check_in", eventID, memberID, models.OutcomeWindowInactive), nil
	case !st.CheckInActive:
		// Only the check-out window is open: the no-time-in path.
		return s.checkOut(ctx, ev, memberID, capturedAt)
	case st.CheckOutActive:
		// Overlap: prefer check-in only when the member has no record yet.
		existing, err := s.findRecord(ctx, eventID, memberID)
		if err != nil {
			return models.Result{}, err
		}
		if existing != nil {
			return s.checkOut(ctx, ev, memberID, capturedAt)
		}
	}

	return s.checkIn(ctx, ev, memberID, capturedAt, mediaRef)
}

// CheckOut reconciles a verified departure at capturedAt. A check-out is
// accepted only inside the check-out window.
func (s *Service) CheckOut(ctx context.Context, eventID id.EventID, memberID id.MemberID, capturedAt time.Time) (models.Result, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.CheckOut",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer span.End()

	ev, err := s.getEvent(ctx, eventID)
	if err != nil {
		return models.Result{}, err
	}
	if ev.IsClosed() {
		return s.reject(ctx, "check_out", eventID, memberID, models.OutcomeEventClosed), nil
	}
	if !window.At(ev, capturedAt).CheckOutActive {
		return s.reject(ctx, "check_out", eventID, memberID, models.OutcomeWindowInactive), nil
	}

	return s.checkOut(ctx, ev, memberID, capturedAt)
}

// checkIn creates the record through a single conditional insert. On
// conflict the existing record classifies the rejection, so a duplicate
// network retry can never create a second row.
func (s *Service) checkIn(ctx context.Context, ev *event.Event, memberID id.MemberID, capturedAt time.Time, mediaRef string) (models.Result, error) {
	start := time.Now()
	rec := &models.AttendanceRecord{
		ID:        id.NewRecordID(),
		EventID:   ev.ID,
		MemberID:  memberID,
		CheckInAt: &capturedAt,
		Status:    id.RecordStatusPresent,
		MediaRef:  mediaRef,
		CreatedAt: capturedAt,
	}

	err := s.records.CreateIfAbsent(ctx, rec)
	if errors.Is(err, sentinel.ErrConflict) {
		existing, ferr := s.records.Find(ctx, ev.ID, memberID)
		if ferr != nil {
			return models.Result{}, dErrors.Wrap(ferr, dErrors.CodeInternal, "failed to load conflicting record")
		}
		outcome := models.OutcomeDuplicateCheckIn
		if existing.NoTimeIn() {
			// Out-of-order arrival: already recorded as a late check-out.
			outcome = models.OutcomeAlreadyCheckedOut
		}
		return s.rejectWith(ctx, "check_in", existing, outcome), nil
	}
	if err != nil {
		return models.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create attendance record")
	}

	s.observe("check_in", models.OutcomeCreated, start)
	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionCheckInRecorded,
		EventID:   ev.ID.String(),
		MemberID:  memberID.String(),
		Outcome:   models.OutcomeCreated.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return models.Result{Outcome: models.OutcomeCreated, Record: rec}, nil
}

// checkOut stamps an existing record or creates the late (no-time-in) one.
func (s *Service) checkOut(ctx context.Context, ev *event.Event, memberID id.MemberID, capturedAt time.Time) (models.Result, error) {
	start := time.Now()
	existing, err := s.findRecord(ctx, ev.ID, memberID)
	if err != nil {
		return models.Result{}, err
	}

	switch {
	case existing == nil:
		return s.lateCheckOut(ctx, ev, memberID, capturedAt, start)

	case existing.HasCheckOut():
		return s.rejectWith(ctx, "check_out", existing, models.OutcomeDuplicateCheckOut), nil

	case capturedAt.Before(*existing.CheckInAt):
		// Clock-skew guard: never record a departure before the arrival.
		return s.rejectWith(ctx, "check_out", existing, models.OutcomeCheckOutBeforeCheckIn), nil
	}

	updated, err := s.records.SetCheckOutIfUnset(ctx, ev.ID, memberID, capturedAt)
	if errors.Is(err, sentinel.ErrPreconditionFailed) {
		// Lost a race with a concurrent check-out for the same pair.
		rec, ferr := s.records.Find(ctx, ev.ID, memberID)
		if ferr != nil {
			return models.Result{}, dErrors.Wrap(ferr, dErrors.CodeInternal, "failed to load conflicting record")
		}
		return s.rejectWith(ctx, "check_out", rec, models.OutcomeDuplicateCheckOut), nil
	}
	if err != nil {
		return models.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to set check-out")
	}

	s.observe("check_out", models.OutcomeUpdated, start)
	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionCheckOutRecorded,
		EventID:   ev.ID.String(),
		MemberID:  memberID.String(),
		Outcome:   models.OutcomeUpdated.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return models.Result{Outcome: models.OutcomeUpdated, Record: updated}, nil
}

// lateCheckOut creates the check-out-with-no-prior-check-in record.
func (s *Service) lateCheckOut(ctx context.Context, ev *event.Event, memberID id.MemberID, capturedAt time.Time, start time.Time) (models.Result, error) {
	rec := &models.AttendanceRecord{
		ID:         id.NewRecordID(),
		EventID:    ev.ID,
		MemberID:   memberID,
		CheckOutAt: &capturedAt,
		Status:     id.RecordStatusLate,
		CreatedAt:  capturedAt,
	}
	err := s.records.CreateIfAbsent(ctx, rec)
	if errors.Is(err, sentinel.ErrConflict) {
		// Lost a race with a concurrent call that created the record first;
		// re-reconcile against what exists now.
		return s.checkOut(ctx, ev, memberID, capturedAt)
	}
	if err != nil {
		return models.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create late record")
	}

	s.observe("check_out", models.OutcomeCreated, start)
	if s.metrics != nil {
		s.metrics.LateRecordsTotal.Inc()
	}
	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionLateCheckOutRecorded,
		EventID:   ev.ID.String(),
		MemberID:  memberID.String(),
		Outcome:   models.OutcomeCreated.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return models.Result{Outcome: models.OutcomeCreated, Record: rec}, nil
}

// Report lists the records of an event for rendering. Late records carry
// the no-time-in marker so downstream surfaces never show them as a silent
// late.
func (s *Service) Report(ctx context.Context, eventID id.EventID) ([]*models.AttendanceRecord, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	records, err := s.records.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list attendance records")
	}
	return records, nil
}

func (s *Service) getEvent(ctx context.Context, eventID id.EventID) (*event.Event, error) {
	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get event")
	}
	return ev, nil
}

// findRecord normalizes not-found to nil.
func (s *Service) findRecord(ctx context.Context, eventID id.EventID, memberID id.MemberID) (*models.AttendanceRecord, error) {
	rec, err := s.records.Find(ctx, eventID, memberID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to find attendance record")
	}
	return rec, nil
}

func (s *Service) reject(ctx context.Context, operation string, eventID id.EventID, memberID id.MemberID, outcome models.Outcome) models.Result {
	s.observe(operation, outcome, time.Time{})
	action := audit.ActionCheckInRejected
	if operation == "check_out" {
		action = audit.ActionCheckOutRejected
	}
	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: requestcontext.Now(ctx),
		Action:    action,
		EventID:   eventID.String(),
		MemberID:  memberID.String(),
		Outcome:   outcome.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return models.Result{Outcome: outcome}
}

func (s *Service) rejectWith(ctx context.Context, operation string, rec *models.AttendanceRecord, outcome models.Outcome) models.Result {
	result := s.reject(ctx, operation, rec.EventID, rec.MemberID, outcome)
	result.Record = rec
	return result
}

func (s *Service) observe(operation string, outcome models.Outcome, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOutcome(operation, outcome.String())
	if !start.IsZero() {
		s.metrics.ReconcileDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}
}
