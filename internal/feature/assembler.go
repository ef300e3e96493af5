// Package feature assembles fixed-schema feature vectors from the
// read-only weather, drought, terrain, and population reference stores.
//
// Assembly never mutates a store and never fails on partial data: any
// feature an upstream store cannot serve keeps its documented schema
// default and is reported in the imputed-field list. Only a complete gap
// (no weather and no drought data at all for the window) is a hard
// failure.
package feature

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// measurableRainMM is the precipitation floor for a "rain day" when
// computing days_since_rain. Trace amounts do not wet fuels.
const measurableRainMM = 1.0

// Assembler builds feature vectors for prediction requests.
type Assembler struct {
	weather    WeatherStore
	drought    DroughtStore
	terrain    TerrainStore
	population PopulationStore
	logger     *slog.Logger
}

// New creates an Assembler over the four reference stores. terrain and
// population may be nil; their features are then always imputed.
func New(weather WeatherStore, drought DroughtStore, terrain TerrainStore, population PopulationStore, logger *slog.Logger) *Assembler {
	return &Assembler{
		weather:    weather,
		drought:    drought,
		terrain:    terrain,
		population: population,
		logger:     logger,
	}
}

// Assemble builds the v1 feature vector for a location and window. The
// returned slice names the fields that were imputed from schema defaults.
// It fails with domain.ErrDataUnavailable only when weather and drought
// are both completely absent for the window.
func (a *Assembler) Assemble(ctx context.Context, loc domain.Location, win domain.ObservationWindow) (domain.FeatureVector, []string, error) {
	vec, err := domain.NewFeatureVector(domain.SchemaVersion1)
	if err != nil {
		return domain.FeatureVector{}, nil, err
	}

	// Seasonal encoding depends only on the target date, never imputed.
	monthSin, monthCos := domain.SeasonalEncoding(win.TargetDate)
	mustSet(&vec, "month_sin", monthSin)
	mustSet(&vec, "month_cos", monthCos)

	obs, err := a.weather.Observations(ctx, loc, win.Start(), win.End())
	if err != nil {
		return domain.FeatureVector{}, nil, fmt.Errorf("query weather store: %w", err)
	}
	a.setWeatherFeatures(&vec, obs, win)

	droughtRec, droughtFound, err := a.drought.LatestLevel(ctx, loc, win.Start(), win.End())
	if err != nil {
		return domain.FeatureVector{}, nil, fmt.Errorf("query drought store: %w", err)
	}
	if droughtFound {
		mustSet(&vec, "drought_level", float64(droughtRec.Level))
	}

	if len(obs) == 0 && !droughtFound {
		return domain.FeatureVector{}, nil, fmt.Errorf(
			"no weather or drought data for (%g, %g) in %s..%s: %w",
			loc.Lat, loc.Lon,
			win.Start().Format("2006-01-02"), win.End().Format("2006-01-02"),
			domain.ErrDataUnavailable,
		)
	}

	a.setTerrainFeatures(ctx, &vec, loc)
	a.setPopulationFeature(ctx, &vec, loc)

	imputed := vec.MissingFields()
	if len(imputed) > 0 {
		a.logger.Debug("assembled with imputed features",
			"lat", loc.Lat, "lon", loc.Lon, "imputed", imputed)
	}
	return vec, imputed, nil
}

// setWeatherFeatures aggregates daily observations over the window.
func (a *Assembler) setWeatherFeatures(vec *domain.FeatureVector, obs []WeatherObservation, win domain.ObservationWindow) {
	if len(obs) == 0 {
		return
	}

	var (
		tmaxSum, tminSum, precipSum float64
		tmaxMax                     = obs[0].TMaxC
		windSum                     float64
		windCount                   int
	)
	lastRain := win.Start().AddDate(0, 0, -1)
	rained := false

	for _, o := range obs {
		tmaxSum += o.TMaxC
		tminSum += o.TMinC
		precipSum += o.PrecipMM
		if o.TMaxC > tmaxMax {
			tmaxMax = o.TMaxC
		}
		if o.PrecipMM >= measurableRainMM && o.Date.After(lastRain) {
			lastRain = o.Date
			rained = true
		}
		if o.WindMPS != nil {
			windSum += *o.WindMPS
			windCount++
		}
	}

	n := float64(len(obs))
	mustSet(vec, "tmax_mean_c", tmaxSum/n)
	mustSet(vec, "tmax_max_c", tmaxMax)
	mustSet(vec, "tmin_mean_c", tminSum/n)
	mustSet(vec, "precip_total_mm", precipSum)

	daysSinceRain := float64(win.LookbackDays)
	if rained {
		daysSinceRain = win.End().Sub(lastRain).Hours() / 24
		if daysSinceRain < 0 {
			daysSinceRain = 0
		}
	}
	mustSet(vec, "days_since_rain", daysSinceRain)

	if windCount > 0 {
		mustSet(vec, "wind_mean_mps", windSum/float64(windCount))
	}
}

func (a *Assembler) setTerrainFeatures(ctx context.Context, vec *domain.FeatureVector, loc domain.Location) {
	if a.terrain == nil {
		return
	}
	terr, found, err := a.terrain.Terrain(ctx, loc)
	if err != nil {
		a.logger.Warn("terrain lookup failed, imputing", "lat", loc.Lat, "lon", loc.Lon, "error", err)
		return
	}
	if !found {
		return
	}
	mustSet(vec, "elevation_m", terr.ElevationM)
	mustSet(vec, "slope_deg", terr.SlopeDeg)
	aspectSin, aspectCos := aspectEncoding(terr.AspectDeg)
	mustSet(vec, "aspect_sin", aspectSin)
	mustSet(vec, "aspect_cos", aspectCos)
}

func (a *Assembler) setPopulationFeature(ctx context.Context, vec *domain.FeatureVector, loc domain.Location) {
	if a.population == nil {
		return
	}
	density, found, err := a.population.Density(ctx, loc)
	if err != nil {
		a.logger.Warn("population lookup failed, imputing", "lat", loc.Lat, "lon", loc.Lon, "error", err)
		return
	}
	if !found {
		return
	}
	mustSet(vec, "population_density", density)
}

// aspectEncoding maps a downslope compass direction onto the unit circle
// so 359° and 1° are adjacent in feature space.
func aspectEncoding(aspectDeg float64) (sin, cos float64) {
	rad := aspectDeg * math.Pi / 180
	return math.Sin(rad), math.Cos(rad)
}

// mustSet writes a known schema field; a failure here is a programming
// error (field name out of sync with the schema table).
func mustSet(vec *domain.FeatureVector, name string, value float64) {
	if err := vec.Set(name, value); err != nil {
		panic(err)
	}
}
