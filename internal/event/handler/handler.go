// Package handler exposes the organizer event lifecycle over HTTP. All
// mutating routes sit behind the organizer token middleware.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/event"
	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/httputil"
	"rollcall/pkg/requestcontext"
)

// Service defines the event lifecycle operations the handler exposes.
type Service interface {
	Create(ctx context.Context, p event.CreateParams) (*event.Event, error)
	Get(ctx context.Context, eventID id.EventID) (*event.Event, error)
	List(ctx context.Context) ([]*event.Event, error)
	Close(ctx context.Context, eventID id.EventID) (*event.Event, error)
	Delete(ctx context.Context, eventID id.EventID) error
	PurgeAttendance(ctx context.Context, eventID id.EventID) (int, error)
}

// Handler wires event endpoints to the event service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an event handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the read-only event routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/events", h.HandleList)
	r.Get("/events/{eventID}", h.HandleGet)
}

// RegisterOrganizer mounts the mutating routes; the caller wraps them in
// the organizer auth middleware.
func (h *Handler) RegisterOrganizer(r chi.Router) {
	r.Post("/events", h.HandleCreate)
	r.Post("/events/{eventID}/close", h.HandleClose)
	r.Delete("/events/{eventID}", h.HandleDelete)
	r.Delete("/events/{eventID}/attendance", h.HandlePurgeAttendance)
}

// HandleCreate handles POST /events requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[*CreateEventRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ev, err := h.service.Create(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "event creation failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "event created",
		"request_id", requestID,
		"event_id", ev.ID,
		"organizer", requestcontext.Organizer(ctx),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromEvent(ev))
}

// HandleGet handles GET /events/{eventID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ev, err := h.service.Get(r.Context(), eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromEvent(ev))
}

// HandleList handles GET /events requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := make([]*EventResponse, 0, len(events))
	for _, ev := range events {
		resp = append(resp, FromEvent(ev))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleClose handles POST /events/{eventID}/close requests.
func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	ev, err := h.service.Close(ctx, eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "event closed",
		"request_id", requestcontext.RequestID(ctx),
		"event_id", eventID,
		"organizer", requestcontext.Organizer(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromEvent(ev))
}

// HandleDelete handles DELETE /events/{eventID} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(ctx, eventID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "event deleted",
		"request_id", requestcontext.RequestID(ctx),
		"event_id", eventID,
		"organizer", requestcontext.Organizer(ctx),
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandlePurgeAttendance handles DELETE /events/{eventID}/attendance.
func (h *Handler) HandlePurgeAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID, err := id.ParseEventID(chi.URLParam(r, "eventID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	deleted, err := h.service.PurgeAttendance(ctx, eventID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "attendance purged",
		"request_id", requestcontext.RequestID(ctx),
		"event_id", eventID,
		"deleted", deleted,
		"organizer", requestcontext.Organizer(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, PurgeResponse{EventID: eventID.String(), Deleted: deleted})
}
