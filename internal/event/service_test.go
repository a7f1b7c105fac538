package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/audit"
	auditmem "rollcall/pkg/platform/audit/memory"
	"rollcall/pkg/testutil"
)

var testDay = testutil.MustTime("2025-01-10T00:00:00Z")

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	purger  *fakePurger
	audit   *auditmem.Publisher
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// fakePurger counts cascade deletions.
type fakePurger struct {
	deleted map[id.EventID]int
}

func (p *fakePurger) DeleteByEvent(_ context.Context, eventID id.EventID) (int, error) {
	if p.deleted == nil {
		p.deleted = make(map[id.EventID]int)
	}
	p.deleted[eventID] = 7
	return 7, nil
}

func (s *ServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.purger = &fakePurger{}
	s.audit = auditmem.New()

	var err error
	s.service, err = NewService(s.store, s.purger, WithAuditPublisher(s.audit))
	s.Require().NoError(err)
}

func (s *ServiceSuite) create() *Event {
	ev, err := s.service.Create(testutil.ContextAt(testDay.Add(-72*time.Hour)), CreateParams{
		Name:           "weekly meeting",
		Date:           testDay,
		CheckInAnchor:  8 * time.Hour,
		CheckOutAnchor: 17 * time.Hour,
	})
	s.Require().NoError(err)
	return ev
}

func (s *ServiceSuite) TestCreateAppliesWindowDefaults() {
	ev := s.create()
	s.Equal(DefaultCheckInWindow, ev.CheckInWindow)
	s.Equal(DefaultCheckOutWindow, ev.CheckOutWindow)
	s.Equal(id.EventStatusOpen, ev.Status)
	s.True(ev.CreatedAt.Equal(testDay.Add(-72*time.Hour)), "creation stamp comes from the request clock")

	got, err := s.service.Get(context.Background(), ev.ID)
	s.Require().NoError(err)
	s.Equal(ev.ID, got.ID)
}

func (s *ServiceSuite) TestCreateRejectsInvalidInput() {
	s.Run("empty name", func() {
		_, err := s.service.Create(context.Background(), CreateParams{
			Date:           time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			CheckInAnchor:  8 * time.Hour,
			CheckOutAnchor: 17 * time.Hour,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("anchor beyond the day", func() {
		_, err := s.service.Create(context.Background(), CreateParams{
			Name:           "bad",
			Date:           time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			CheckInAnchor:  25 * time.Hour,
			CheckOutAnchor: 17 * time.Hour,
		})
		s.Require().Error(err)
	})
}

func (s *ServiceSuite) TestClose() {
	ev := s.create()

	closed, err := s.service.Close(context.Background(), ev.ID)
	s.Require().NoError(err)
	s.Equal(id.EventStatusClosed, closed.Status)

	s.Run("closing twice is a conflict", func() {
		_, err := s.service.Close(context.Background(), ev.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown event is not found", func() {
		_, err := s.service.Close(context.Background(), id.NewEventID())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestPurgeAttendanceCascades() {
	ev := s.create()

	deleted, err := s.service.PurgeAttendance(context.Background(), ev.ID)
	s.Require().NoError(err)
	s.Equal(7, deleted)
	s.Contains(s.purger.deleted, ev.ID)

	var purged bool
	for _, e := range s.audit.ByEvent(ev.ID.String()) {
		if e.Action == audit.ActionAttendancePurged {
			purged = true
		}
	}
	s.True(purged)
}

func (s *ServiceSuite) TestDeleteCascadesAndRemovesEvent() {
	ev := s.create()

	s.Require().NoError(s.service.Delete(context.Background(), ev.ID))
	s.Contains(s.purger.deleted, ev.ID, "attendance records go first")

	_, err := s.service.Get(context.Background(), ev.ID)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	var logged bool
	for _, e := range s.audit.ByEvent(ev.ID.String()) {
		if e.Action == audit.ActionEventDeleted {
			logged = true
		}
	}
	s.True(logged)

	s.Run("deleting twice is not found", func() {
		err := s.service.Delete(context.Background(), ev.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAnchorParsing(t *testing.T) {
	d, err := ParseAnchor("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour+30*time.Minute, d)
	assert.Equal(t, "08:30", FormatAnchor(d))

	for _, bad := range []string{"", "8:3", "24:00", "12:60", "noon"} {
		if _, err := ParseAnchor(bad); err == nil {
			t.Errorf("anchor %q was accepted", bad)
		}
	}
}
