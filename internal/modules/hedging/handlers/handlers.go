// Package handlers provides HTTP handlers for volatility-targeted rebalancing.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/hedgeguard/internal/modules/hedging"
	"github.com/aristath/hedgeguard/pkg/formulas"
	"github.com/rs/zerolog"
)

// Handler handles hedging HTTP requests
type Handler struct {
	service *hedging.Service
	log     zerolog.Logger
}

// NewHandler creates a new hedging handler
func NewHandler(service *hedging.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "hedging").Logger(),
	}
}

// HandleRebalance handles POST /api/hedging/rebalance
func (h *Handler) HandleRebalance(w http.ResponseWriter, r *http.Request) {
	var req hedging.RebalanceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Rebalance(req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, formulas.ErrInvalidArgument):
			status = http.StatusBadRequest
		case errors.Is(err, formulas.ErrUndefinedResult):
			status = http.StatusUnprocessableEntity
		default:
			h.log.Error().Err(err).Msg("Rebalance failed")
		}
		h.writeJSON(w, status, map[string]interface{}{"error": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": result,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetPolicy handles GET /api/hedging/policy
func (h *Handler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	policy := h.service.Policy()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"target_annualized_volatility": policy.TargetAnnualizedVolatility,
			"max_leverage":                 policy.MaxLeverage,
			"trading_days_per_year":        policy.TradingDaysPerYear,
			"target_daily_volatility":      formulas.TargetDailyVolatility(policy.TargetAnnualizedVolatility, policy.TradingDaysPerYear),
		},
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
