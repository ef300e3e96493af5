package domain

import (
	"fmt"
	"time"
)

// Location is a WGS-84 latitude/longitude pair. Immutable once a prediction
// request is created.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Bounds is a rectangular geographic extent.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// CaliforniaBounds is the supported prediction extent, matching the
// coverage of the reference datasets.
var CaliforniaBounds = Bounds{
	MinLat: 32.5,
	MaxLat: 42.0,
	MinLon: -124.5,
	MaxLon: -114.0,
}

// Contains reports whether the location falls inside the bounds.
func (b Bounds) Contains(loc Location) bool {
	return loc.Lat >= b.MinLat && loc.Lat <= b.MaxLat &&
		loc.Lon >= b.MinLon && loc.Lon <= b.MaxLon
}

// Validate checks the location against the supported bounds.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("coordinates (%g, %g) are not valid lat/lon: %w", l.Lat, l.Lon, ErrInvalidRequest)
	}
	if !CaliforniaBounds.Contains(l) {
		return fmt.Errorf("location (%g, %g) is outside the supported California extent: %w", l.Lat, l.Lon, ErrInvalidRequest)
	}
	return nil
}

// Horizon bounds how far ahead a target date may lie, in whole days from
// the current date.
type Horizon struct {
	MinDays int
	MaxDays int
}

// DefaultHorizon is the supported 7–30 day forecast window.
var DefaultHorizon = Horizon{MinDays: 7, MaxDays: 30}

// ValidateTarget checks a target date against the horizon, at date
// granularity in UTC.
func (h Horizon) ValidateTarget(target time.Time) error {
	today := clock.Now().UTC().Truncate(24 * time.Hour)
	t := target.UTC().Truncate(24 * time.Hour)
	daysOut := int(t.Sub(today).Hours() / 24)

	if daysOut < h.MinDays {
		return fmt.Errorf("target date %s is under the %d-day minimum horizon: %w",
			t.Format("2006-01-02"), h.MinDays, ErrInvalidRequest)
	}
	if daysOut > h.MaxDays {
		return fmt.Errorf("target date %s exceeds the %d-day maximum horizon: %w",
			t.Format("2006-01-02"), h.MaxDays, ErrInvalidRequest)
	}
	return nil
}

// ObservationWindow pairs a target date with a lookback span over which
// weather and drought signals are aggregated. Created per request.
type ObservationWindow struct {
	TargetDate   time.Time
	LookbackDays int
}

// NewObservationWindow builds a window with the given lookback, defaulting
// to 30 days when the argument is zero. Supported lookbacks are 30, 60,
// and 90 days.
func NewObservationWindow(target time.Time, lookbackDays int) (ObservationWindow, error) {
	if lookbackDays == 0 {
		lookbackDays = 30
	}
	switch lookbackDays {
	case 30, 60, 90:
	default:
		return ObservationWindow{}, fmt.Errorf("lookback must be 30, 60, or 90 days, got %d: %w", lookbackDays, ErrInvalidRequest)
	}
	return ObservationWindow{TargetDate: target.UTC(), LookbackDays: lookbackDays}, nil
}

// Start returns the first day of the aggregation window.
func (w ObservationWindow) Start() time.Time {
	return w.TargetDate.AddDate(0, 0, -w.LookbackDays)
}

// End returns the last day of the aggregation window.
func (w ObservationWindow) End() time.Time {
	return w.TargetDate
}
