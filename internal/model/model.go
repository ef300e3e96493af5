// Package model trains and serves the wildfire risk classifier.
//
// The classifier is a logistic regression over standardized v1 features.
// A TrainedModel is a self-contained versioned artifact: coefficients,
// standardization statistics, category thresholds, and training metadata
// travel together, so any process loading the artifact reproduces the
// exact serving behavior.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// Metadata records how and how well a model was trained. Carried inside
// the artifact for auditability.
type Metadata struct {
	TrainedAt          time.Time       `json:"trained_at"`
	TrainingExamples   int             `json:"training_examples"`
	ValidationExamples int             `json:"validation_examples"`
	AUC                float64         `json:"auc"`
	PrecisionAtHigh    float64         `json:"precision_at_high"`
	RecallAtHigh       float64         `json:"recall_at_high"`
	Hyperparameters    Hyperparameters `json:"hyperparameters"`
}

// TrainedModel binds a feature schema to learned parameters. Immutable
// after training; a recalibration produces a new artifact.
type TrainedModel struct {
	Version        string            `json:"version"`
	SchemaVersion  string            `json:"schema_version"`
	Coefficients   []float64         `json:"coefficients"`
	Intercept      float64           `json:"intercept"`
	FeatureMeans   []float64         `json:"feature_means"`
	FeatureStddevs []float64         `json:"feature_stddevs"`
	Thresholds     domain.Thresholds `json:"thresholds"`
	Metadata       Metadata          `json:"metadata"`
}

// Validate checks internal consistency: the schema must be known, the
// parameter vectors must match its width, and thresholds must be monotonic.
// Called on every artifact load and publish.
func (m *TrainedModel) Validate() error {
	fields, err := domain.SchemaFields(m.SchemaVersion)
	if err != nil {
		return err
	}
	n := len(fields)
	if len(m.Coefficients) != n || len(m.FeatureMeans) != n || len(m.FeatureStddevs) != n {
		return fmt.Errorf("model %s parameter width %d/%d/%d does not match schema %s width %d: %w",
			m.Version, len(m.Coefficients), len(m.FeatureMeans), len(m.FeatureStddevs), m.SchemaVersion, n,
			domain.ErrSchemaMismatch)
	}
	for i, s := range m.FeatureStddevs {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("model %s has invalid stddev %g for feature %s", m.Version, s, fields[i].Name)
		}
	}
	if err := m.Thresholds.Validate(); err != nil {
		return fmt.Errorf("model %s: %w", m.Version, err)
	}
	return nil
}

// Predict scores a feature vector, returning the calibrated probability in
// [0,1] and its risk category. Fails with SchemaMismatch when the vector
// was assembled under a different schema version.
func (m *TrainedModel) Predict(vec domain.FeatureVector) (float64, domain.RiskCategory, error) {
	if vec.SchemaVersion != m.SchemaVersion {
		return 0, "", fmt.Errorf("vector schema %q, model %s expects %q: %w",
			vec.SchemaVersion, m.Version, m.SchemaVersion, domain.ErrSchemaMismatch)
	}
	if len(vec.Values) != len(m.Coefficients) {
		return 0, "", fmt.Errorf("vector has %d values, model %s expects %d: %w",
			len(vec.Values), m.Version, len(m.Coefficients), domain.ErrSchemaMismatch)
	}

	z := m.Intercept
	for i, x := range vec.Values {
		z += m.Coefficients[i] * (x - m.FeatureMeans[i]) / m.FeatureStddevs[i]
	}
	score := sigmoid(z)
	return score, m.Thresholds.Categorize(score), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// modelVersion derives a deterministic version identifier from the learned
// parameters, so retraining on identical data yields an identical version.
func modelVersion(schemaVersion string, coefficients []float64, intercept float64) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%g", schemaVersion, intercept)
	for _, c := range coefficients {
		fmt.Fprintf(h, "|%g", c)
	}
	return schemaVersion + "-" + hex.EncodeToString(h.Sum(nil)[:8])
}
