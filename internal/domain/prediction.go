package domain

import "time"

// RiskPrediction is the immutable result of one prediction request.
// ModelVersion identifies the artifact that produced the score, for audit.
type RiskPrediction struct {
	Location      Location     `json:"location"`
	TargetDate    time.Time    `json:"target_date"`
	Score         float64      `json:"risk_score"`
	Category      RiskCategory `json:"risk_category"`
	ModelVersion  string       `json:"model_version"`
	GeneratedAt   time.Time    `json:"generated_at"`
	ImputedFields []string     `json:"imputed_fields,omitempty"`
}

// NewRiskPrediction stamps a prediction with the current time.
func NewRiskPrediction(loc Location, target time.Time, score float64, category RiskCategory, modelVersion string, imputed []string) RiskPrediction {
	return RiskPrediction{
		Location:      loc,
		TargetDate:    target.UTC(),
		Score:         score,
		Category:      category,
		ModelVersion:  modelVersion,
		GeneratedAt:   clock.Now().UTC(),
		ImputedFields: imputed,
	}
}
