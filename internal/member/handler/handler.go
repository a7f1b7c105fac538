// Package handler exposes the thin membership surface reconciliation
// depends on: member creation and enrollment binding.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/member"
	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the member operations the handler exposes.
type Service interface {
	Create(ctx context.Context, fullName string) (*member.Member, error)
	Get(ctx context.Context, memberID id.MemberID) (*member.Member, error)
	Enroll(ctx context.Context, memberID id.MemberID, token id.IdentityToken) (*member.Member, error)
}

// Handler wires member endpoints to the member service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts member routes; the caller wraps them in the organizer
// auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/members", h.HandleCreate)
	r.Get("/members/{memberID}", h.HandleGet)
	r.Post("/members/{memberID}/enroll", h.HandleEnroll)
}

// CreateMemberRequest is the HTTP request body for POST /members.
type CreateMemberRequest struct {
	FullName string `json:"full_name"`
}

func (r *CreateMemberRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if len(r.FullName) > 200 {
		return dErrors.New(dErrors.CodeValidation, "full_name must be at most 200 characters")
	}
	return nil
}

// EnrollRequest is the HTTP request body for POST /members/{id}/enroll.
type EnrollRequest struct {
	IdentityToken string `json:"identity_token"`
}

func (r *EnrollRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}
	r.IdentityToken = strings.TrimSpace(r.IdentityToken)
	if r.IdentityToken == "" {
		return dErrors.New(dErrors.CodeValidation, "identity_token is required")
	}
	if len(r.IdentityToken) > 128 {
		return dErrors.New(dErrors.CodeValidation, "identity_token must be at most 128 characters")
	}
	return nil
}

// MemberResponse is the wire shape of one member.
type MemberResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Enrolled  bool      `json:"enrolled"`
	CreatedAt time.Time `json:"created_at"`
}

// FromMember converts a domain member to its wire shape. The identity
// token itself never crosses this surface.
func FromMember(m *member.Member) *MemberResponse {
	return &MemberResponse{
		ID:        m.ID.String(),
		FullName:  m.FullName,
		Enrolled:  m.IsEnrolled(),
		CreatedAt: m.CreatedAt,
	}
}

// HandleCreate handles POST /members requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*CreateMemberRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	m, err := h.service.Create(ctx, req.FullName)
	if err != nil {
		h.logger.ErrorContext(ctx, "member creation failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromMember(m))
}

// HandleGet handles GET /members/{memberID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.service.Get(r.Context(), memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromMember(m))
}

// HandleEnroll handles POST /members/{memberID}/enroll requests.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[*EnrollRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	m, err := h.service.Enroll(ctx, memberID, id.IdentityToken(req.IdentityToken))
	if err != nil {
		h.logger.ErrorContext(ctx, "enrollment binding failed",
			"request_id", requestID,
			"member_id", memberID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "member enrolled",
		"request_id", requestID,
		"member_id", memberID,
		"organizer", requestcontext.Organizer(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromMember(m))
}
