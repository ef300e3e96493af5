package influx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellTag(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{34.05, "34.00"},
		{34.13, "34.25"},
		{-118.24, "-118.25"},
		{42.0, "42.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cellTag(tt.in), "cellTag(%g)", tt.in)
	}
}

func TestFieldValue(t *testing.T) {
	values := map[string]interface{}{"tmax_c": 31.5, "precip_mm": "bad"}

	assert.Equal(t, 31.5, fieldValue(values, "tmax_c"))
	assert.Equal(t, 0.0, fieldValue(values, "precip_mm"), "non-float values read as zero")
	assert.Equal(t, 0.0, fieldValue(values, "absent"))
}
