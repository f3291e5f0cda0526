// Package handlers provides HTTP handlers for the calculation log.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/hedgeguard/internal/modules/calculations"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles calculation log HTTP requests
type Handler struct {
	repo calculations.RepositoryInterface
	log  zerolog.Logger
}

// NewHandler creates a new calculation log handler
func NewHandler(repo calculations.RepositoryInterface, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "calculations").Logger(),
	}
}

// HandleList handles GET /api/calculations?kind=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind, err := calculations.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.repo.GetRecent(kind, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list calculations")
		http.Error(w, "Failed to list calculations", http.StatusInternalServerError)
		return
	}

	views := make([]*calculations.RecordView, 0, len(records))
	for i := range records {
		view, err := records[i].View()
		if err != nil {
			h.log.Warn().Err(err).Str("id", records[i].ID).Msg("Skipping undecodable calculation")
			continue
		}
		views = append(views, view)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": views,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(views),
			"kind":      string(kind),
			"limit":     limit,
		},
	})
}

// HandleGet handles GET /api/calculations/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.repo.GetByID(id)
	if errors.Is(err, calculations.ErrNotFound) {
		http.Error(w, "Calculation not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to get calculation")
		http.Error(w, "Failed to get calculation", http.StatusInternalServerError)
		return
	}

	view, err := record.View()
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to decode calculation")
		http.Error(w, "Failed to decode calculation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": view,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	// Encode first so a failure can still change the status
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
