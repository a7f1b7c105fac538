package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"rollcall/internal/attendance/service"
	"rollcall/internal/attendance/store/record"
	"rollcall/internal/event"
	"rollcall/internal/identity"
	"rollcall/internal/member"
	"rollcall/internal/verification"
	id "rollcall/pkg/domain"
	"rollcall/pkg/requestcontext"
)

// The handler suite exercises the full check-in flow over HTTP against the
// in-memory stack: byte-equality mock directory, real attempt tracking,
// real reconciliation.

type HandlerSuite struct {
	suite.Suite
	router  chi.Router
	events  *event.InMemoryStore
	members *member.InMemoryStore

	ev          *event.Event
	aisha       *member.Member
	now         time.Time
	asOrganizer bool
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.events = event.NewInMemoryStore()
	s.members = member.NewInMemoryStore()
	records := record.NewInMemoryStore()
	s.asOrganizer = false

	directory := identity.MockDirectory{Templates: []identity.EnrolledTemplate{
		{Token: "tok-aisha", Template: []byte("aisha-face")},
	}}
	verifier, err := verification.New(directory, verification.NewInMemorySessionStore(time.Minute))
	s.Require().NoError(err)

	engine, err := service.New(eventProvider{s.events}, records)
	s.Require().NoError(err)

	h := New(engine, verifier, s.members, slog.New(slog.DiscardHandler))
	s.router = chi.NewRouter()
	s.router.Use(s.testContext)
	h.Register(s.router)

	s.now = time.Date(2025, 1, 10, 8, 15, 0, 0, time.UTC)
	s.ev = s.seedEvent()
	s.aisha = s.seedMember("Aisha Diallo", "tok-aisha")
}

// testContext pins the request time to the suite clock and optionally
// marks the request as an organizer.
func (s *HandlerSuite) testContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), s.now)
		if s.asOrganizer {
			ctx = requestcontext.WithOrganizer(ctx, "front-desk")
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type eventProvider struct {
	store *event.InMemoryStore
}

func (p eventProvider) Get(ctx context.Context, eventID id.EventID) (*event.Event, error) {
	return p.store.Get(ctx, eventID)
}

func (s *HandlerSuite) seedEvent() *event.Event {
	ev, err := event.New("weekly meeting",
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		8*time.Hour, 17*time.Hour, 30*time.Minute, 30*time.Minute,
		time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().NoError(s.events.Create(context.Background(), ev))
	return ev
}

func (s *HandlerSuite) seedMember(name, token string) *member.Member {
	tok := id.IdentityToken(token)
	m := &member.Member{ID: id.NewMemberID(), FullName: name, IdentityToken: &tok}
	s.Require().NoError(s.members.Create(context.Background(), m))
	return m
}

func (s *HandlerSuite) post(path string, body map[string]any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeCheck(rec *httptest.ResponseRecorder) CheckResponse {
	var resp CheckResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sample(b string) string { return base64.StdEncoding.EncodeToString([]byte(b)) }

func (s *HandlerSuite) TestCheckInFacePath() {
	rec := s.post("/attendance/check-in", map[string]any{
		"event_id":    s.ev.ID.String(),
		"session_key": "kiosk-1",
		"live_sample": sample("aisha-face"),
	})
	s.Equal(http.StatusCreated, rec.Code)

	resp := s.decodeCheck(rec)
	s.Equal("created", resp.Outcome)
	s.Require().NotNil(resp.Record)
	s.Equal(s.aisha.ID.String(), resp.Record.MemberID)
	s.Equal("present", resp.Record.Status)
	s.False(resp.Record.NoTimeIn)
}

func (s *HandlerSuite) TestCheckInDuplicateIsNoOpSuccess() {
	body := map[string]any{
		"event_id":    s.ev.ID.String(),
		"session_key": "kiosk-1",
		"live_sample": sample("aisha-face"),
	}
	s.Equal(http.StatusCreated, s.post("/attendance/check-in", body).Code)

	rec := s.post("/attendance/check-in", body)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("duplicate_check_in", s.decodeCheck(rec).Outcome)
}

func (s *HandlerSuite) TestCheckInVerificationFailures() {
	body := map[string]any{
		"event_id":    s.ev.ID.String(),
		"session_key": "kiosk-1",
		"live_sample": sample("stranger-face"),
	}

	for attempt, wantRemaining := range []int{2, 1} {
		rec := s.post("/attendance/check-in", body)
		s.Equal(http.StatusUnauthorized, rec.Code, "attempt %d", attempt+1)
		resp := s.decodeCheck(rec)
		s.Equal("verification_failed", resp.Outcome)
		s.Require().NotNil(resp.RemainingAttempts)
		s.Equal(wantRemaining, *resp.RemainingAttempts)
	}

	rec := s.post("/attendance/check-in", body)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("verification_exhausted", s.decodeCheck(rec).Outcome)
}

func (s *HandlerSuite) TestCheckInWindowInactive() {
	s.now = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	rec := s.post("/attendance/check-in", map[string]any{
		"event_id":    s.ev.ID.String(),
		"session_key": "kiosk-1",
		"live_sample": sample("aisha-face"),
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("window_inactive", s.decodeCheck(rec).Outcome)
}

func (s *HandlerSuite) TestManualPathRequiresOrganizer() {
	body := map[string]any{
		"event_id":  s.ev.ID.String(),
		"member_id": s.aisha.ID.String(),
	}

	rec := s.post("/attendance/check-in", body)
	s.Equal(http.StatusForbidden, rec.Code)

	s.asOrganizer = true
	rec = s.post("/attendance/check-in", body)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("created", s.decodeCheck(rec).Outcome)
}

func (s *HandlerSuite) TestCheckOutLateRendersNoTimeIn() {
	s.now = time.Date(2025, 1, 10, 17, 5, 0, 0, time.UTC)
	s.asOrganizer = true

	rec := s.post("/attendance/check-out", map[string]any{
		"event_id":  s.ev.ID.String(),
		"member_id": s.aisha.ID.String(),
	})
	s.Equal(http.StatusCreated, rec.Code)

	resp := s.decodeCheck(rec)
	s.Equal("created", resp.Outcome)
	s.Require().NotNil(resp.Record)
	s.Nil(resp.Record.TimeIn)
	s.True(resp.Record.NoTimeIn)
	s.Equal("late", resp.Record.Status)
}

func (s *HandlerSuite) TestReport() {
	s.asOrganizer = true
	s.post("/attendance/check-in", map[string]any{
		"event_id":  s.ev.ID.String(),
		"member_id": s.aisha.ID.String(),
	})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%s/attendance", s.ev.ID), nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)

	var resp ReportResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(s.ev.ID.String(), resp.EventID)
	s.Require().Len(resp.Records, 1)
	s.Equal(s.aisha.ID.String(), resp.Records[0].MemberID)
}

func (s *HandlerSuite) TestValidation() {
	s.Run("missing event id", func() {
		rec := s.post("/attendance/check-in", map[string]any{
			"session_key": "kiosk-1",
			"live_sample": sample("aisha-face"),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("sample and member are mutually exclusive", func() {
		rec := s.post("/attendance/check-in", map[string]any{
			"event_id":    s.ev.ID.String(),
			"session_key": "kiosk-1",
			"live_sample": sample("aisha-face"),
			"member_id":   s.aisha.ID.String(),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed base64", func() {
		rec := s.post("/attendance/check-in", map[string]any{
			"event_id":    s.ev.ID.String(),
			"session_key": "kiosk-1",
			"live_sample": "%%%not-base64%%%",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown report event", func() {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%s/attendance", id.NewEventID()), nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
