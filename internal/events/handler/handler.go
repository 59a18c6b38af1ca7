// Package handler implements the HTTP surface over the events service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Adithya-Monish-Kumar-K/historical-events-service/internal/events"
	apperrors "github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/historical-events-service/pkg/logger"
)

type Handler struct {
	svc    *events.Service
	logger *slog.Logger
}

func New(svc *events.Service) *Handler {
	return &Handler{
		svc:    svc,
		logger: slog.Default().With("component", "events-handler"),
	}
}

// Routes registers all endpoints on the given mux.
//
// Route table:
//
//	GET  /events/             → list with optional date/location/theme filters
//	GET  /events/{id}         → fetch one record
//	POST /events/fetch/{year} → run ingestion for a year
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /events/", h.ListEvents)
	mux.HandleFunc("GET /events/{id}", h.GetEvent)
	mux.HandleFunc("POST /events/fetch/{year}", h.FetchYear)
}

// ListEvents returns every record matching the query filters. No pagination:
// the response carries the full match set.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := events.Filter{
		Date:     q.Get("date"),
		Location: q.Get("location"),
		Theme:    q.Get("theme"),
	}

	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		logger.FromContext(r.Context()).Error("listing events failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// GetEvent returns one record by id. A malformed id maps to 400, an absent
// one to 404.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	event, err := h.svc.Get(r.Context(), id)
	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if status == http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error("fetching event failed", "id", id, "error", err)
			h.writeError(w, status, "failed to fetch event")
			return
		}
		h.writeError(w, status, apperrors.UserMessage(err))
		return
	}
	h.writeJSON(w, http.StatusOK, event)
}

// FetchYear runs the ingestion pipeline for the year in the path. 404 when
// the encyclopedia has nothing for the year; 500 with the underlying message
// when the store insert fails.
func (h *Handler) FetchYear(w http.ResponseWriter, r *http.Request) {
	year := r.PathValue("year")
	log := logger.FromContext(r.Context())

	id, err := h.svc.Ingest(r.Context(), year)
	if err != nil {
		status := apperrors.HTTPStatusCode(err)
		if status == http.StatusInternalServerError {
			log.Error("ingestion failed", "year", year, "error", err)
		}
		h.writeError(w, status, apperrors.UserMessage(err))
		return
	}

	log.Info("event stored", "id", id, "year", year)
	h.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Event stored",
		"id":      id,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
