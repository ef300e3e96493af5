// Package predictor orchestrates a prediction request: input validation,
// feature assembly, model inference, and best-effort publication of the
// result to the sink topic.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/model"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/observability"
)

// FeatureAssembler builds a feature vector for a location and window,
// reporting which fields were imputed.
type FeatureAssembler interface {
	Assemble(ctx context.Context, loc domain.Location, win domain.ObservationWindow) (domain.FeatureVector, []string, error)
}

// Publisher delivers served predictions to downstream consumers.
type Publisher interface {
	PublishPrediction(ctx context.Context, pred domain.RiskPrediction) error
}

// Service serves wildfire risk predictions. Stateless per request; the
// only shared mutable state is the registry's active-model pointer.
type Service struct {
	assembler FeatureAssembler
	registry  *model.Registry
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics

	horizon        domain.Horizon
	lookbackDays   int
	requestTimeout time.Duration
}

// New creates a prediction service. publisher may be nil.
func New(assembler FeatureAssembler, registry *model.Registry, publisher Publisher,
	logger *slog.Logger, metrics *observability.Metrics,
	horizon domain.Horizon, lookbackDays int, requestTimeout time.Duration) *Service {
	return &Service{
		assembler:      assembler,
		registry:       registry,
		publisher:      publisher,
		logger:         logger,
		metrics:        metrics,
		horizon:        horizon,
		lookbackDays:   lookbackDays,
		requestTimeout: requestTimeout,
	}
}

// GetPrediction validates the request, assembles features, and scores them
// with the active model. Validation failures are InvalidRequest; upstream
// data gaps and timeout expiry surface as ServiceUnavailable.
func (s *Service) GetPrediction(ctx context.Context, lat, lon float64, targetDate time.Time) (domain.RiskPrediction, error) {
	start := time.Now()
	defer func() {
		s.metrics.RequestDuration.Observe(time.Since(start).Seconds())
	}()

	loc := domain.Location{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		s.metrics.RequestErrors.WithLabelValues("invalid_request").Inc()
		return domain.RiskPrediction{}, err
	}
	if err := s.horizon.ValidateTarget(targetDate); err != nil {
		s.metrics.RequestErrors.WithLabelValues("invalid_request").Inc()
		return domain.RiskPrediction{}, err
	}
	win, err := domain.NewObservationWindow(targetDate, s.lookbackDays)
	if err != nil {
		s.metrics.RequestErrors.WithLabelValues("invalid_request").Inc()
		return domain.RiskPrediction{}, err
	}

	// Pin the model before assembly so a concurrent publish cannot change
	// the version mid-request.
	active := s.registry.Active()
	if active == nil {
		s.metrics.RequestErrors.WithLabelValues("internal").Inc()
		return domain.RiskPrediction{}, fmt.Errorf("no active model published: %w", domain.ErrServiceUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	assembleStart := time.Now()
	vec, imputed, err := s.assembler.Assemble(ctx, loc, win)
	s.metrics.AssemblyDuration.Observe(time.Since(assembleStart).Seconds())
	if err != nil {
		return domain.RiskPrediction{}, s.assemblyFailure(err)
	}

	score, category, err := active.Predict(vec)
	if err != nil {
		s.metrics.RequestErrors.WithLabelValues("schema_mismatch").Inc()
		s.logger.Error("schema mismatch between assembler and active model",
			"model_version", active.Version, "vector_schema", vec.SchemaVersion, "error", err)
		return domain.RiskPrediction{}, err
	}

	pred := domain.NewRiskPrediction(loc, targetDate, score, category, active.Version, imputed)
	s.metrics.PredictionsServed.WithLabelValues(string(category)).Inc()

	s.publish(ctx, pred)
	return pred, nil
}

// assemblyFailure classifies an assembler error for metrics and maps it to
// ServiceUnavailable, the caller-facing transient-condition signal.
func (s *Service) assemblyFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrDataUnavailable):
		s.metrics.RequestErrors.WithLabelValues("data_unavailable").Inc()
	case errors.Is(err, context.DeadlineExceeded):
		s.metrics.RequestErrors.WithLabelValues("timeout").Inc()
	default:
		s.metrics.RequestErrors.WithLabelValues("internal").Inc()
	}
	return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
}

// publish sends the prediction to the sink topic, best effort. A publish
// failure never fails the request that produced the prediction.
func (s *Service) publish(ctx context.Context, pred domain.RiskPrediction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPrediction(ctx, pred); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish prediction failed",
			"model_version", pred.ModelVersion, "error", err)
		return
	}
	s.metrics.PredictionsPublished.Inc()
}

// CheckReadiness reports whether the service can serve predictions: an
// active model must be published.
func (s *Service) CheckReadiness(_ context.Context) error {
	active := s.registry.Active()
	if active == nil {
		s.metrics.ServiceReady.Set(0)
		return errors.New("no active model published")
	}
	s.metrics.ServiceReady.Set(1)
	s.metrics.ActiveModelAge.Set(domain.Now().Sub(active.Metadata.TrainedAt).Seconds())
	return nil
}
