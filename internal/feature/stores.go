package feature

import (
	"context"
	"time"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// WeatherObservation is one day of aggregated station weather for the grid
// cell containing a location. WindMPS is nil when the source stations
// reported no AWND value for the day.
type WeatherObservation struct {
	Date     time.Time
	TMaxC    float64
	TMinC    float64
	PrecipMM float64
	WindMPS  *float64
}

// DroughtRecord is one weekly US Drought Monitor classification.
// Level is 0–4 for D0–D4.
type DroughtRecord struct {
	ValidStart time.Time
	Level      int
}

// Terrain holds the static topography values for a location.
// AspectDeg is the downslope compass direction in degrees from north.
type Terrain struct {
	ElevationM float64
	SlopeDeg   float64
	AspectDeg  float64
}

// WeatherStore serves daily weather observations for a location and date
// range. An empty slice with a nil error means no data exists for the range.
type WeatherStore interface {
	Observations(ctx context.Context, loc domain.Location, start, end time.Time) ([]WeatherObservation, error)
}

// DroughtStore serves the most recent weekly drought classification whose
// valid period overlaps the date range. found is false when the range has
// no classification at all.
type DroughtStore interface {
	LatestLevel(ctx context.Context, loc domain.Location, start, end time.Time) (rec DroughtRecord, found bool, err error)
}

// TerrainStore serves static topography for a location.
type TerrainStore interface {
	Terrain(ctx context.Context, loc domain.Location) (t Terrain, found bool, err error)
}

// PopulationStore serves population density (persons per square kilometer)
// for the county containing a location.
type PopulationStore interface {
	Density(ctx context.Context, loc domain.Location) (density float64, found bool, err error)
}
