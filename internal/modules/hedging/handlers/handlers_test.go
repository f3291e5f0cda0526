package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/hedgeguard/internal/config"
	"github.com/aristath/hedgeguard/internal/modules/hedging"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	handler := NewHandler(hedging.NewService(config.DefaultPolicy(), nil, nil, logger), logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestHandleRebalance(t *testing.T) {
	router := setupRouter()

	body := `{"predicted_volatility":0.01,"portfolio_value":1000000}`
	req := httptest.NewRequest(http.MethodPost, "/hedging/rebalance", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data hedging.RebalanceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.InDelta(t, 1.259881576697424, response.Data.TargetWeight, 1e-12)
	assert.InDelta(t, 1_000_000, response.Data.PositionValue+response.Data.CashValue, 1e-6)
	assert.False(t, response.Data.Capped)
	assert.Equal(t, 2.0, response.Data.Request.MaxLeverage)
}

func TestHandleRebalance_Errors(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"predicted_volatility":`},
		{"missing volatility", `{"portfolio_value":1000}`},
		{"negative volatility", `{"predicted_volatility":-0.2,"portfolio_value":1000}`},
		{"zero trading days", `{"predicted_volatility":0.01,"portfolio_value":1000,"trading_days_per_year":0}`},
		{"negative target volatility", `{"predicted_volatility":0.01,"portfolio_value":1000,"target_annualized_volatility":-0.2}`},
		{"volatility too small to divide by", `{"predicted_volatility":1e-320,"portfolio_value":1000000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/hedging/rebalance", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, w.Body.String())
		})
	}
}

func TestHandleRebalance_PositionOverflow(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/hedging/rebalance",
		bytes.NewBufferString(`{"predicted_volatility":0.001,"portfolio_value":1e308}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "undefined result")
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	h := NewHandler(nil, zerolog.Nop())

	w := httptest.NewRecorder()
	h.writeJSON(w, http.StatusOK, map[string]float64{"weight": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to encode response")
}

func TestHandleGetPolicy(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hedging/policy", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data map[string]float64 `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 0.20, response.Data["target_annualized_volatility"])
	assert.Equal(t, 2.0, response.Data["max_leverage"])
	assert.Equal(t, 252.0, response.Data["trading_days_per_year"])
	assert.InDelta(t, 0.0125988, response.Data["target_daily_volatility"], 1e-6)
}
