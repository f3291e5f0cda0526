package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/hedgeguard/internal/modules/risk"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *chi.Mux {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	service := risk.NewService(0.05, 252, nil, nil, logger)
	handler := NewHandler(service, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func post(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleTailRisk(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/risk/tail", `{"columns":{"QQQ_Return":[-0.05,-0.03,null,-0.01,0,0.01,0.02,0.03]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data struct {
			Column          string  `json:"column"`
			Alpha           float64 `json:"alpha"`
			VaR             float64 `json:"var"`
			ES              float64 `json:"es"`
			ConfidenceLevel string  `json:"confidence_level"`
		} `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "QQQ_Return", response.Data.Column)
	assert.Equal(t, 0.05, response.Data.Alpha)
	assert.InDelta(t, -0.044, response.Data.VaR, 1e-12)
	assert.InDelta(t, -0.05, response.Data.ES, 1e-12)
	assert.Equal(t, "95%", response.Data.ConfidenceLevel)
	assert.Contains(t, response.Metadata, "timestamp")
}

func TestHandleTailRisk_ExplicitColumnAndAlpha(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/risk/tail", `{"columns":{"SPY":[0.02,-0.01,-0.04,0.03]},"column":"SPY","alpha":0.1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.InDelta(t, -0.031, response.Data["var"], 1e-12)
	assert.Equal(t, "90%", response.Data["confidence_level"])
}

func TestHandleTailRisk_ErrorStatuses(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"columns":`, http.StatusBadRequest},
		{"missing column", `{"columns":{"SPY":[0.01]}}`, http.StatusNotFound},
		{"alpha out of range", `{"columns":{"QQQ_Return":[0.01]},"alpha":2}`, http.StatusBadRequest},
		{"only missing values", `{"columns":{"QQQ_Return":[null,null]}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, router, "/risk/tail", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandleReport(t *testing.T) {
	router := setupRouter()

	w := post(t, router, "/risk/report", `{"columns":{"QQQ_Return":[0.02,null,-0.01,-0.04,0.03]},"alphas":[0.05,0.1]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Data risk.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, 4, response.Data.Summary.Observations)
	assert.Equal(t, 1, response.Data.Summary.MissingValues)
	require.Len(t, response.Data.Metrics, 2)
	assert.InDelta(t, -0.0355, response.Data.Metrics[0].VaR, 1e-12)
	assert.Equal(t, 0.1, response.Data.Metrics[1].Alpha)
}

func TestRegisterRoutes(t *testing.T) {
	router := chi.NewRouter()
	handler := NewHandler(risk.NewService(0.05, 252, nil, nil, zerolog.Nop()), zerolog.Nop())

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	}, "RegisterRoutes should not panic")
}

func TestHandleReport_OverflowingSummaryIsNotAnEmptySuccess(t *testing.T) {
	router := setupRouter()

	// The mean of these sums past MaxFloat64
	w := post(t, router, "/risk/report", `{"columns":{"QQQ_Return":[1.7e308,1.7e308]}}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to encode response")
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	h := NewHandler(nil, zerolog.Nop())

	w := httptest.NewRecorder()
	h.writeJSON(w, http.StatusOK, map[string]float64{"es": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Header().Get("Content-Type"), "application/json")
}
