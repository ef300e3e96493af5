// Package http exposes the prediction API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// PredictionGetter serves one risk prediction per request.
type PredictionGetter interface {
	GetPrediction(ctx context.Context, lat, lon float64, targetDate time.Time) (domain.RiskPrediction, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// predictionRequest is the inbound JSON body for POST /v1/predictions.
// TargetDate accepts YYYY-MM-DD or RFC 3339.
type predictionRequest struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TargetDate string  `json:"target_date"`
}

// predictionResponse is the outbound JSON for a served prediction.
type predictionResponse struct {
	RiskScore     float64   `json:"risk_score"`
	RiskCategory  string    `json:"risk_category"`
	ModelVersion  string    `json:"model_version"`
	GeneratedAt   time.Time `json:"generated_at"`
	TargetDate    string    `json:"target_date"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	ImputedFields []string  `json:"imputed_fields,omitempty"`
}

// Server exposes the prediction API over HTTP.
type Server struct {
	httpServer *http.Server
	predictor  PredictionGetter
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the prediction route plus
// /healthz, /readyz, and /metrics.
func NewServer(addr string, predictor PredictionGetter, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		logger:    logger,
	}

	mux.HandleFunc("POST /v1/predictions", s.handlePrediction)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handlePrediction(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	target, err := parseTargetDate(req.TargetDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pred, err := s.predictor.GetPrediction(r.Context(), req.Latitude, req.Longitude, target)
	if err != nil {
		s.writePredictionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionResponse{
		RiskScore:     pred.Score,
		RiskCategory:  string(pred.Category),
		ModelVersion:  pred.ModelVersion,
		GeneratedAt:   pred.GeneratedAt,
		TargetDate:    pred.TargetDate.Format("2006-01-02"),
		Latitude:      pred.Location.Lat,
		Longitude:     pred.Location.Lon,
		ImputedFields: pred.ImputedFields,
	})
}

// writePredictionError maps the domain failure taxonomy onto HTTP status
// codes: client faults are 400, transient upstream conditions 503,
// anything else (including schema skew) 500.
func (s *Server) writePredictionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "prediction temporarily unavailable")
	default:
		s.logger.Error("prediction request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseTargetDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("target_date is required")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("target_date %q is not YYYY-MM-DD or RFC 3339", s)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
