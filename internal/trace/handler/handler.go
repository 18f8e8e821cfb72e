// Package handler exposes the read-only audit-trail endpoints consumed by
// trail UIs. The engine's write path is library-only: domain services call
// the emitter in process, never over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"traceability/internal/trace/models"
	"traceability/internal/trace/service"
	id "traceability/pkg/domain"
	"traceability/pkg/platform/httputil"
)

// Handler serves the audit-trail read routes.
type Handler struct {
	query  *service.Query
	logger *slog.Logger
}

// New constructs the handler.
func New(q *service.Query, logger *slog.Logger) *Handler {
	return &Handler{query: q, logger: logger}
}

// Register mounts the read routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/trace/publishers/{id}/events", h.eventsForPublisher)
	r.Get("/trace/actors/{id}/events", h.eventsForActor)
	r.Get("/trace/subjects/{id}/events", h.eventsForSubject)
}

func (h *Handler) eventsForPublisher(w http.ResponseWriter, r *http.Request) {
	publisherID, err := id.ParsePublisherID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.query.EventsForPublisher(r.Context(), publisherID)
	if err != nil {
		h.logError(r, "list events by publisher failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeEvents(w, events)
}

func (h *Handler) eventsForActor(w http.ResponseWriter, r *http.Request) {
	actorID, err := id.ParseActorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.query.EventsForActor(r.Context(), actorID)
	if err != nil {
		h.logError(r, "list events by actor failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeEvents(w, events)
}

func (h *Handler) eventsForSubject(w http.ResponseWriter, r *http.Request) {
	subjectID, err := id.ParseSubjectID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.query.EventsForSubject(r.Context(), subjectID)
	if err != nil {
		h.logError(r, "list events by subject failed", err)
		httputil.WriteError(w, err)
		return
	}
	writeEvents(w, events)
}

func writeEvents(w http.ResponseWriter, events []*models.Event) {
	if events == nil {
		events = []*models.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if h.logger != nil {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	}
}
