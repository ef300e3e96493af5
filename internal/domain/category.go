package domain

import "fmt"

// RiskCategory is an ordinal bucket derived from a risk score.
type RiskCategory string

const (
	RiskLow      RiskCategory = "low"
	RiskModerate RiskCategory = "moderate"
	RiskHigh     RiskCategory = "high"
	RiskExtreme  RiskCategory = "extreme"
)

// categoryRank orders categories for comparisons; higher is riskier.
var categoryRank = map[RiskCategory]int{
	RiskLow:      0,
	RiskModerate: 1,
	RiskHigh:     2,
	RiskExtreme:  3,
}

// AtLeast reports whether c is as severe as other.
func (c RiskCategory) AtLeast(other RiskCategory) bool {
	return categoryRank[c] >= categoryRank[other]
}

// Thresholds maps a continuous score onto the four risk categories. Scores
// below Moderate are low; each threshold is the inclusive lower bound of
// its category. Carried in model metadata so recalibration does not require
// retraining.
type Thresholds struct {
	Moderate float64 `json:"moderate"`
	High     float64 `json:"high"`
	Extreme  float64 `json:"extreme"`
}

// DefaultThresholds is the initial calibration used when a model artifact
// carries none.
var DefaultThresholds = Thresholds{Moderate: 0.25, High: 0.5, Extreme: 0.75}

// Validate enforces that thresholds are strictly increasing within (0,1),
// so Categorize is monotonic in the score.
func (t Thresholds) Validate() error {
	if t.Moderate <= 0 || t.Extreme >= 1 {
		return fmt.Errorf("thresholds must lie strictly inside (0,1), got %+v", t)
	}
	if t.Moderate >= t.High || t.High >= t.Extreme {
		return fmt.Errorf("thresholds must be strictly increasing, got %+v", t)
	}
	return nil
}

// Categorize maps a score in [0,1] to its risk category.
func (t Thresholds) Categorize(score float64) RiskCategory {
	switch {
	case score < t.Moderate:
		return RiskLow
	case score < t.High:
		return RiskModerate
	case score < t.Extreme:
		return RiskHigh
	default:
		return RiskExtreme
	}
}
