package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationValidate(t *testing.T) {
	tests := []struct {
		name    string
		loc     Location
		wantErr bool
	}{
		{"downtown Los Angeles", Location{Lat: 34.05, Lon: -118.24}, false},
		{"Sacramento", Location{Lat: 38.58, Lon: -121.49}, false},
		{"north edge", Location{Lat: 42.0, Lon: -120.0}, false},
		{"south edge", Location{Lat: 32.5, Lon: -117.0}, false},
		{"Portland, outside box", Location{Lat: 45.52, Lon: -122.68}, true},
		{"Phoenix, outside box", Location{Lat: 33.45, Lon: -112.07}, true},
		{"nonsense latitude", Location{Lat: 123.0, Lon: -118.0}, true},
		{"nonsense longitude", Location{Lat: 34.0, Lon: -400.0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestHorizonValidateTarget(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	h := DefaultHorizon

	tests := []struct {
		name    string
		daysOut int
		wantErr bool
	}{
		{"below minimum", 3, true},
		{"minimum boundary", 7, false},
		{"mid horizon", 20, false},
		{"maximum boundary", 30, false},
		{"beyond maximum", 31, true},
		{"in the past", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := now.AddDate(0, 0, tt.daysOut)
			err := h.ValidateTarget(target)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewObservationWindow(t *testing.T) {
	target := time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC)

	t.Run("defaults to 30 days", func(t *testing.T) {
		w, err := NewObservationWindow(target, 0)
		require.NoError(t, err)
		assert.Equal(t, 30, w.LookbackDays)
		assert.Equal(t, target.AddDate(0, 0, -30), w.Start())
		assert.Equal(t, target, w.End())
	})

	t.Run("accepts 60 and 90", func(t *testing.T) {
		for _, days := range []int{60, 90} {
			w, err := NewObservationWindow(target, days)
			require.NoError(t, err)
			assert.Equal(t, days, w.LookbackDays)
		}
	})

	t.Run("rejects unsupported lookback", func(t *testing.T) {
		_, err := NewObservationWindow(target, 45)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}
