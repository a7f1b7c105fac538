// Package handler wires the check-in flow to HTTP: verification, member
// resolution, then reconciliation. Every result kind crosses the wire
// losslessly in the outcome field.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/attendance/models"
	"rollcall/internal/member"
	"rollcall/internal/verification"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// Engine is the reconciliation surface the handler drives.
type Engine interface {
	CheckIn(ctx context.Context, eventID id.EventID, memberID id.MemberID, capturedAt time.Time, mediaRef string) (models.Result, error)
	CheckOut(ctx context.Context, eventID id.EventID, memberID id.MemberID, capturedAt time.Time) (models.Result, error)
	Report(ctx context.Context, eventID id.EventID) ([]*models.AttendanceRecord, error)
}

// Verifier runs one identity-verification attempt.
type Verifier interface {
	Verify(ctx context.Context, sessionKey string, liveSample []byte) (verification.Result, error)
}

// MemberResolver maps a verified identity token back to a member.
type MemberResolver interface {
	FindByToken(ctx context.Context, token id.IdentityToken) (*member.Member, error)
}

// Handler wires attendance endpoints to the engine.
type Handler struct {
	engine   Engine
	verifier Verifier
	members  MemberResolver
	logger   *slog.Logger
}

// New constructs an attendance handler with its dependencies.
func New(engine Engine, verifier Verifier, members MemberResolver, logger *slog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		verifier: verifier,
		members:  members,
		logger:   logger,
	}
}

// Register mounts attendance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attendance/check-in", h.HandleCheckIn)
	r.Post("/attendance/check-out", h.HandleCheckOut)
	r.Get("/events/{eventID}/attendance", h.HandleReport)
}

// HandleCheckIn handles POST /attendance/check-in requests.
func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, "check_in", func(ctx context.Context, req *CheckRequest, memberID id.MemberID) (models.Result, error) {
		return h.engine.CheckIn(ctx, req.parsedEventID, memberID, requestcontext.Now(ctx), req.MediaRef)
	})
}

// HandleCheckOut handles POST /attendance/check-out requests.
func (h *Handler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleCheck(w, r, "check_out", func(ctx context.Context, req *CheckRequest, memberID id.MemberID) (models.Result, error) {
		return h.engine.CheckOut(ctx, req.parsedEventID, memberID, requestcontext.Now(ctx))
	})
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request, operation string, reconcile func(context.Context, *CheckRequest, id.MemberID) (models.Result, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*CheckRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	memberID, ok := h.resolveMember(w, r, req)
	if !ok {
		return
	}

	result, err := reconcile(ctx, req, memberID)
	if err != nil {
		h.logger.ErrorContext(ctx, "reconciliation failed",
			"request_id", requestID,
			"operation", operation,
			"event_id", req.EventID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "reconciliation completed",
		"request_id", requestID,
		"operation", operation,
		"event_id", req.EventID,
		"member_id", memberID,
		"outcome", result.Outcome,
	)
	httputil.WriteJSON(w, statusForOutcome(result.Outcome), FromResult(result))
}

// resolveMember runs verification on the face path or the organizer check
// on the manual path. It writes the response itself on failure; the bool
// reports whether reconciliation should proceed.
func (h *Handler) resolveMember(w http.ResponseWriter, r *http.Request, req *CheckRequest) (id.MemberID, bool) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if req.Manual() {
		// Manual reference bypasses biometric verification, so only an
		// authenticated organizer may use it.
		if requestcontext.Organizer(ctx) == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "manual check-in requires an organizer token"))
			return id.MemberID{}, false
		}
		return req.parsedMemberID, true
	}

	vres, err := h.verifier.Verify(ctx, req.SessionKey, req.parsedSample)
	if err != nil {
		h.logger.ErrorContext(ctx, "identity verification errored",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return id.MemberID{}, false
	}

	switch vres.Outcome {
	case verification.OutcomeVerified:
		// fall through to member resolution

	case verification.OutcomeFailed:
		remaining := vres.Remaining
		httputil.WriteJSON(w, http.StatusUnauthorized, &CheckResponse{
			Outcome:           verification.OutcomeFailed.String(),
			Message:           "identity not recognized, please try again",
			RemainingAttempts: &remaining,
		})
		return id.MemberID{}, false

	case verification.OutcomeExhausted:
		httputil.WriteJSON(w, http.StatusForbidden, &CheckResponse{
			Outcome: verification.OutcomeExhausted.String(),
			Message: "verification attempts exhausted, please enroll or use the manual fallback",
		})
		return id.MemberID{}, false

	case verification.OutcomeNoEnrolledIdentity:
		httputil.WriteJSON(w, http.StatusConflict, &CheckResponse{
			Outcome: verification.OutcomeNoEnrolledIdentity.String(),
			Message: "no enrolled identities are available for matching",
		})
		return id.MemberID{}, false

	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "unexpected verification outcome"))
		return id.MemberID{}, false
	}

	m, err := h.members.FindByToken(ctx, vres.Token)
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "verified identity is not bound to a member"))
		return id.MemberID{}, false
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve member"))
		return id.MemberID{}, false
	}
	return m.ID, true
}

// HandleReport handles GET /events/{eventID}/attendance requests.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.engine.Report(ctx, eventID)
	if err != nil {
		h.logger.ErrorContext(ctx, "attendance report failed",
			"request_id", requestcontext.RequestID(ctx),
			"event_id", eventID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := ReportResponse{EventID: eventID.String(), Records: make([]RecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, *FromRecord(rec))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// statusForOutcome maps result kinds to HTTP statuses. Duplicates are a
// harmless no-op success from the caller's perspective, not an error.
func statusForOutcome(outcome models.Outcome) int {
	switch outcome {
	case models.OutcomeCreated:
		return http.StatusCreated
	case models.OutcomeUpdated, models.OutcomeDuplicateCheckIn, models.OutcomeDuplicateCheckOut:
		return http.StatusOK
	default:
		return http.StatusConflict
	}
}
