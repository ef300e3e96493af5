package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/http"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

type mockPredictor struct {
	pred domain.RiskPrediction
	err  error
}

func (m *mockPredictor) GetPrediction(_ context.Context, lat, lon float64, target time.Time) (domain.RiskPrediction, error) {
	if m.err != nil {
		return domain.RiskPrediction{}, m.err
	}
	pred := m.pred
	pred.Location = domain.Location{Lat: lat, Lon: lon}
	pred.TargetDate = target
	return pred, nil
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func newTestServer(p *mockPredictor, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", p, &mockReadiness{err: readyErr}, slog.Default())
}

func postPrediction(t *testing.T, srv *httpadapter.Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
	srv.ServeHTTP(rec, req)
	return rec
}

func TestPrediction_HappyPath(t *testing.T) {
	p := &mockPredictor{pred: domain.RiskPrediction{
		Score:        0.82,
		Category:     domain.RiskExtreme,
		ModelVersion: "v1-abc123",
		GeneratedAt:  time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}}
	srv := newTestServer(p, nil)

	rec := postPrediction(t, srv, `{"latitude":34.05,"longitude":-118.24,"target_date":"2025-08-21"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0.82, body["risk_score"])
	assert.Equal(t, "extreme", body["risk_category"])
	assert.Equal(t, "v1-abc123", body["model_version"])
	assert.Equal(t, "2025-08-21", body["target_date"])
	assert.Equal(t, 34.05, body["latitude"])
	assert.Equal(t, -118.24, body["longitude"])
}

func TestPrediction_MalformedBody(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)

	rec := postPrediction(t, srv, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrediction_MissingTargetDate(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)

	rec := postPrediction(t, srv, `{"latitude":34.05,"longitude":-118.24}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "target_date")
}

func TestPrediction_BadDateFormat(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)

	rec := postPrediction(t, srv, `{"latitude":34.05,"longitude":-118.24,"target_date":"08/21/2025"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrediction_RFC3339DateAccepted(t *testing.T) {
	p := &mockPredictor{pred: domain.RiskPrediction{Category: domain.RiskLow, ModelVersion: "v1-x"}}
	srv := newTestServer(p, nil)

	rec := postPrediction(t, srv, `{"latitude":34.05,"longitude":-118.24,"target_date":"2025-08-21T00:00:00Z"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPrediction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid request", fmt.Errorf("out of bounds: %w", domain.ErrInvalidRequest), http.StatusBadRequest},
		{"service unavailable", fmt.Errorf("%w: gap", domain.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{"schema mismatch", fmt.Errorf("skew: %w", domain.ErrSchemaMismatch), http.StatusInternalServerError},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&mockPredictor{err: tt.err}, nil)
			rec := postPrediction(t, srv, `{"latitude":34.05,"longitude":-118.24,"target_date":"2025-08-21"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, fmt.Errorf("no active model published"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no active model published", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestPrediction_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&mockPredictor{}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/predictions", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
