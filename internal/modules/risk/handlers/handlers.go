// Package handlers provides HTTP handlers for tail-risk operations.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/hedgeguard/internal/modules/risk"
	"github.com/aristath/hedgeguard/pkg/formulas"
	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies carrying return series
const maxBodyBytes = 8 << 20

// Handler handles tail-risk HTTP requests
type Handler struct {
	service *risk.Service
	log     zerolog.Logger
}

// NewHandler creates a new tail-risk handler
func NewHandler(service *risk.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// TailRiskRequest is the body of POST /api/risk/tail.
// Columns carry returns with null for missing observations.
type TailRiskRequest struct {
	Columns map[string][]*float64 `json:"columns"`
	Column  string                `json:"column"`
	Alpha   *float64              `json:"alpha"`
}

// ReportRequest is the body of POST /api/risk/report
type ReportRequest struct {
	Columns map[string][]*float64 `json:"columns"`
	Column  string                `json:"column"`
	Alphas  []float64             `json:"alphas"`
}

// HandleTailRisk handles POST /api/risk/tail
func (h *Handler) HandleTailRisk(w http.ResponseWriter, r *http.Request) {
	var req TailRiskRequest
	if !h.decode(w, r, &req) {
		return
	}

	column := req.Column
	if column == "" {
		column = risk.DefaultReturnColumn
	}
	alpha := h.service.DefaultAlpha()
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	metrics, err := h.service.ComputeRiskMetrics(risk.NewReturnTableFromNullable(req.Columns), column, alpha)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"column":           column,
			"alpha":            alpha,
			"var":              metrics.VaR,
			"es":               metrics.ES,
			"confidence_level": metrics.ConfidenceLevel,
			"method":           "historical",
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleReport handles POST /api/risk/report
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !h.decode(w, r, &req) {
		return
	}

	column := req.Column
	if column == "" {
		column = risk.DefaultReturnColumn
	}

	report, err := h.service.ComputeReport(risk.NewReturnTableFromNullable(req.Columns), column, req.Alphas)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": report,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeError maps formula errors to HTTP statuses
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, formulas.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, formulas.ErrMissingData):
		status = http.StatusNotFound
	case errors.Is(err, formulas.ErrUndefinedResult):
		status = http.StatusUnprocessableEntity
	default:
		h.log.Error().Err(err).Msg("Tail-risk calculation failed")
	}

	h.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
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
