package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdsCategorize(t *testing.T) {
	th := DefaultThresholds

	tests := []struct {
		score float64
		want  RiskCategory
	}{
		{0.0, RiskLow},
		{0.24, RiskLow},
		{0.25, RiskModerate},
		{0.49, RiskModerate},
		{0.5, RiskHigh},
		{0.74, RiskHigh},
		{0.75, RiskExtreme},
		{1.0, RiskExtreme},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, th.Categorize(tt.score), "score %g", tt.score)
	}
}

func TestThresholdsCategorizeMonotonic(t *testing.T) {
	th := Thresholds{Moderate: 0.2, High: 0.55, Extreme: 0.8}

	prev := th.Categorize(0)
	for s := 0.01; s <= 1.0; s += 0.01 {
		cur := th.Categorize(s)
		assert.True(t, cur.AtLeast(prev), "category dropped from %s to %s at score %g", prev, cur, s)
		prev = cur
	}
}

func TestThresholdsValidate(t *testing.T) {
	tests := []struct {
		name    string
		th      Thresholds
		wantErr bool
	}{
		{"defaults", DefaultThresholds, false},
		{"custom increasing", Thresholds{Moderate: 0.1, High: 0.4, Extreme: 0.9}, false},
		{"not increasing", Thresholds{Moderate: 0.5, High: 0.5, Extreme: 0.75}, true},
		{"inverted", Thresholds{Moderate: 0.8, High: 0.5, Extreme: 0.9}, true},
		{"moderate at zero", Thresholds{Moderate: 0, High: 0.5, Extreme: 0.75}, true},
		{"extreme at one", Thresholds{Moderate: 0.25, High: 0.5, Extreme: 1.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.th.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRiskCategoryAtLeast(t *testing.T) {
	assert.True(t, RiskExtreme.AtLeast(RiskHigh))
	assert.True(t, RiskHigh.AtLeast(RiskHigh))
	assert.False(t, RiskModerate.AtLeast(RiskHigh))
	assert.True(t, RiskLow.AtLeast(RiskLow))
}
