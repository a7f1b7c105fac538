package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rollcall/internal/attendance/models"
	"rollcall/internal/attendance/store/record"
	"rollcall/internal/event"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/audit"
	auditmem "rollcall/pkg/platform/audit/memory"
)

// The engine owns every reconciliation rule: window routing, the overlap
// tie-break, duplicate classification, the late path, and the clock-skew
// guard. These are exercised here against the in-memory stores; the
// conditional-write atomicity itself is covered by the store suites.

type EngineSuite struct {
	suite.Suite
	events  *event.InMemoryStore
	records *record.InMemoryStore
	audit   *auditmem.Publisher
	engine  *Service

	ev *event.Event
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.events = event.NewInMemoryStore()
	s.records = record.NewInMemoryStore()
	s.audit = auditmem.New()

	var err error
	s.engine, err = New(eventProvider{s.events}, s.records, WithAuditPublisher(s.audit))
	s.Require().NoError(err)

	s.ev = s.newEvent()
}

// eventProvider adapts the raw store to the EventProvider port the way the
// event service does in production wiring.
type eventProvider struct {
	store *event.InMemoryStore
}

func (p eventProvider) Get(ctx context.Context, eventID id.EventID) (*event.Event, error) {
	return p.store.Get(ctx, eventID)
}

// newEvent: 2025-01-10, check-in 08:00 + 30 min, check-out 17:00 + 30 min.
func (s *EngineSuite) newEvent() *event.Event {
	ev, err := event.New("weekly meeting",
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		8*time.Hour, 17*time.Hour, 30*time.Minute, 30*time.Minute,
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().NoError(s.events.Create(context.Background(), ev))
	return ev
}

func clock(hour, min int) time.Time {
	return time.Date(2025, 1, 10, hour, min, 0, 0, time.UTC)
}

func (s *EngineSuite) TestConstructor() {
	s.Run("nil event provider returns error", func() {
		_, err := New(nil, s.records)
		s.Error(err)
	})
	s.Run("nil record store returns error", func() {
		_, err := New(eventProvider{s.events}, nil)
		s.Error(err)
	})
}

func (s *EngineSuite) TestCheckIn() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	s.Run("creates record inside check-in window", func() {
		res, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(8, 15), "samples/m.jpg")
		s.Require().NoError(err)
		s.Equal(models.OutcomeCreated, res.Outcome)
		s.Require().NotNil(res.Record)
		s.Equal(id.RecordStatusPresent, res.Record.Status)
		s.Require().NotNil(res.Record.CheckInAt)
		s.Nil(res.Record.CheckOutAt)
		s.Equal("samples/m.jpg", res.Record.MediaRef)
	})

	s.Run("duplicate is idempotent", func() {
		res, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(8, 17), "")
		s.Require().NoError(err)
		s.Equal(models.OutcomeDuplicateCheckIn, res.Outcome)
		s.Require().NotNil(res.Record)
		s.True(res.Record.CheckInAt.Equal(clock(8, 15)), "original stamp is never overwritten")

		all, err := s.records.ListByEvent(ctx, s.ev.ID)
		s.Require().NoError(err)
		s.Len(all, 1)
	})

	s.Run("rejects outside any window", func() {
		res, err := s.engine.CheckIn(ctx, s.ev.ID, id.NewMemberID(), clock(12, 0), "")
		s.Require().NoError(err)
		s.Equal(models.OutcomeWindowInactive, res.Outcome)
	})

	s.Run("unknown event is an error, not an outcome", func() {
		_, err := s.engine.CheckIn(ctx, id.NewEventID(), memberID, clock(8, 15), "")
		s.Error(err)
	})
}

func (s *EngineSuite) TestCheckInDuringCheckOutWindowRoutesToLatePath() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	res, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(17, 5), "")
	s.Require().NoError(err)
	s.Equal(models.OutcomeCreated, res.Outcome)
	s.Require().NotNil(res.Record)
	s.Nil(res.Record.CheckInAt)
	s.Require().NotNil(res.Record.CheckOutAt)
	s.Equal(id.RecordStatusLate, res.Record.Status)
	s.True(res.Record.NoTimeIn())
}

func (s *EngineSuite) TestCheckInAfterLateCheckOutIsRejected() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	// Overlapping windows so a check-in attempt can follow a late check-out.
	ev, err := event.New("overlap", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		8*time.Hour, 8*time.Hour+15*time.Minute, 30*time.Minute, 30*time.Minute, clock(7, 0))
	s.Require().NoError(err)
	s.Require().NoError(s.events.Create(ctx, ev))

	_, err = s.engine.CheckOut(ctx, ev.ID, memberID, clock(8, 20))
	s.Require().NoError(err)

	res, err := s.engine.CheckIn(ctx, ev.ID, memberID, clock(8, 25), "")
	s.Require().NoError(err)
	// Routed to check-out by the overlap tie-break; the record already has
	// a check-out stamp.
	s.Equal(models.OutcomeDuplicateCheckOut, res.Outcome)
}

func (s *EngineSuite) TestCheckInAgainstNoTimeInRecordAlone() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	// Check-out window precedes the check-in window, so the check-in
	// attempt lands with only its own window open and a late record in
	// place.
	ev, err := event.New("inverted", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		9*time.Hour, 8*time.Hour, 30*time.Minute, 30*time.Minute, clock(7, 0))
	s.Require().NoError(err)
	s.Require().NoError(s.events.Create(ctx, ev))

	_, err = s.engine.CheckOut(ctx, ev.ID, memberID, clock(8, 10))
	s.Require().NoError(err)

	res, err := s.engine.CheckIn(ctx, ev.ID, memberID, clock(9, 5), "")
	s.Require().NoError(err)
	s.Equal(models.OutcomeAlreadyCheckedOut, res.Outcome)
	s.True(res.Record.NoTimeIn())
}

func (s *EngineSuite) TestCheckOut() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	_, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(8, 15), "")
	s.Require().NoError(err)

	s.Run("stamps departure inside check-out window", func() {
		res, err := s.engine.CheckOut(ctx, s.ev.ID, memberID, clock(17, 10))
		s.Require().NoError(err)
		s.Equal(models.OutcomeUpdated, res.Outcome)
		s.Equal(id.RecordStatusPresent, res.Record.Status)
		s.Require().NotNil(res.Record.CheckOutAt)
	})

	s.Run("duplicate check-out is rejected without overwrite", func() {
		res, err := s.engine.CheckOut(ctx, s.ev.ID, memberID, clock(17, 20))
		s.Require().NoError(err)
		s.Equal(models.OutcomeDuplicateCheckOut, res.Outcome)
		s.True(res.Record.CheckOutAt.Equal(clock(17, 10)))
	})

	s.Run("rejects outside check-out window", func() {
		res, err := s.engine.CheckOut(ctx, s.ev.ID, id.NewMemberID(), clock(8, 20))
		s.Require().NoError(err)
		s.Equal(models.OutcomeWindowInactive, res.Outcome)
	})
}

func (s *EngineSuite) TestLateCheckOutCreatesNoTimeInRecord() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	res, err := s.engine.CheckOut(ctx, s.ev.ID, memberID, clock(17, 5))
	s.Require().NoError(err)
	s.Equal(models.OutcomeCreated, res.Outcome)
	s.Require().NotNil(res.Record)
	s.Nil(res.Record.CheckInAt)
	s.Equal(id.RecordStatusLate, res.Record.Status)
	s.True(res.Record.NoTimeIn())
}

func (s *EngineSuite) TestCheckOutBeforeCheckInGuard() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	// Event whose check-out window overlaps the check-in stamp so a skewed
	// clock can produce capturedAt < check-in.
	ev, err := event.New("skew", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		8*time.Hour, 8*time.Hour, time.Hour, time.Hour, clock(7, 0))
	s.Require().NoError(err)
	s.Require().NoError(s.events.Create(ctx, ev))

	// Both windows open, no record: tie-break goes to check-in.
	res, err := s.engine.CheckIn(ctx, ev.ID, memberID, clock(8, 30), "")
	s.Require().NoError(err)
	s.Require().Equal(models.OutcomeCreated, res.Outcome)

	res, err = s.engine.CheckOut(ctx, ev.ID, memberID, clock(8, 20))
	s.Require().NoError(err)
	s.Equal(models.OutcomeCheckOutBeforeCheckIn, res.Outcome)
}

func (s *EngineSuite) TestEventClosedRejectsEverything() {
	ctx := context.Background()
	memberID := id.NewMemberID()
	s.Require().NoError(s.events.SetStatus(ctx, s.ev.ID, id.EventStatusClosed))

	res, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(8, 15), "")
	s.Require().NoError(err)
	s.Equal(models.OutcomeEventClosed, res.Outcome)

	res, err = s.engine.CheckOut(ctx, s.ev.ID, memberID, clock(17, 10))
	s.Require().NoError(err)
	s.Equal(models.OutcomeEventClosed, res.Outcome)
}

// TestSpecScenario walks the canonical day: M checks in at 08:15 and out at
// 17:10; N never checks in and checks out at 17:05.
func (s *EngineSuite) TestSpecScenario() {
	ctx := context.Background()
	m, n := id.NewMemberID(), id.NewMemberID()

	res, err := s.engine.CheckIn(ctx, s.ev.ID, m, clock(8, 15), "")
	s.Require().NoError(err)
	s.Equal(models.OutcomeCreated, res.Outcome)
	s.Equal(id.RecordStatusPresent, res.Record.Status)

	res, err = s.engine.CheckOut(ctx, s.ev.ID, m, clock(17, 10))
	s.Require().NoError(err)
	s.Equal(models.OutcomeUpdated, res.Outcome)
	s.Equal(id.RecordStatusPresent, res.Record.Status)
	s.Require().NotNil(res.Record.CheckInAt)
	s.Require().NotNil(res.Record.CheckOutAt)

	res, err = s.engine.CheckOut(ctx, s.ev.ID, n, clock(17, 5))
	s.Require().NoError(err)
	s.Equal(models.OutcomeCreated, res.Outcome)
	s.Equal(id.RecordStatusLate, res.Record.Status)
	s.Nil(res.Record.CheckInAt)

	report, err := s.engine.Report(ctx, s.ev.ID)
	s.Require().NoError(err)
	s.Len(report, 2)
}

// TestConcurrentCheckInsOnePair: a member scanning twice in quick
// succession must end with exactly one record.
func (s *EngineSuite) TestConcurrentCheckInsOnePair() {
	ctx := context.Background()
	memberID := id.NewMemberID()
	const goroutines = 25

	var wg sync.WaitGroup
	var created, duplicate atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(8, 15), "")
			if err != nil {
				return
			}
			switch res.Outcome {
			case models.OutcomeCreated:
				created.Add(1)
			case models.OutcomeDuplicateCheckIn:
				duplicate.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(goroutines-1), duplicate.Load())

	all, err := s.records.ListByEvent(ctx, s.ev.ID)
	s.Require().NoError(err)
	s.Len(all, 1)
}

// TestConcurrentDifferentPairsProceed: distinct members never block or
// conflict with each other.
func (s *EngineSuite) TestConcurrentDifferentPairsProceed() {
	ctx := context.Background()
	const members = 30

	var wg sync.WaitGroup
	var created atomic.Int32
	for range members {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.engine.CheckIn(ctx, s.ev.ID, id.NewMemberID(), clock(8, 15), "")
			if err == nil && res.Outcome == models.OutcomeCreated {
				created.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(members), created.Load())
}

func (s *EngineSuite) TestAuditTrail() {
	ctx := context.Background()
	memberID := id.NewMemberID()

	_, err := s.engine.CheckIn(ctx, s.ev.ID, memberID, clock(8, 15), "")
	s.Require().NoError(err)
	_, err = s.engine.CheckOut(ctx, s.ev.ID, memberID, clock(17, 10))
	s.Require().NoError(err)

	entries := s.audit.ByEvent(s.ev.ID.String())
	s.Require().Len(entries, 2)
	s.Equal(audit.ActionCheckInRecorded, entries[0].Action)
	s.Equal(audit.ActionCheckOutRecorded, entries[1].Action)
}
