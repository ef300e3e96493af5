package feature_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/feature"
)

// --- mocks ---

type mockWeather struct {
	obs   []feature.WeatherObservation
	err   error
	calls int
}

func (m *mockWeather) Observations(_ context.Context, _ domain.Location, _, _ time.Time) ([]feature.WeatherObservation, error) {
	m.calls++
	return m.obs, m.err
}

type mockDrought struct {
	rec   feature.DroughtRecord
	found bool
	err   error
}

func (m *mockDrought) LatestLevel(_ context.Context, _ domain.Location, _, _ time.Time) (feature.DroughtRecord, bool, error) {
	return m.rec, m.found, m.err
}

type mockTerrain struct {
	terrain feature.Terrain
	found   bool
	err     error
}

func (m *mockTerrain) Terrain(_ context.Context, _ domain.Location) (feature.Terrain, bool, error) {
	return m.terrain, m.found, m.err
}

type mockPopulation struct {
	density float64
	found   bool
	err     error
}

func (m *mockPopulation) Density(_ context.Context, _ domain.Location) (float64, bool, error) {
	return m.density, m.found, m.err
}

// --- fixtures ---

var testLoc = domain.Location{Lat: 34.05, Lon: -118.24}

func testWindow(t *testing.T) domain.ObservationWindow {
	t.Helper()
	target := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	win, err := domain.NewObservationWindow(target, 30)
	require.NoError(t, err)
	return win
}

func dryObservations(win domain.ObservationWindow) []feature.WeatherObservation {
	wind := 4.5
	var obs []feature.WeatherObservation
	for d := win.Start(); !d.After(win.End()); d = d.AddDate(0, 0, 1) {
		obs = append(obs, feature.WeatherObservation{
			Date:     d,
			TMaxC:    36,
			TMinC:    20,
			PrecipMM: 0,
			WindMPS:  &wind,
		})
	}
	return obs
}

func fullAssembler(t *testing.T, weather *mockWeather, drought *mockDrought) *feature.Assembler {
	t.Helper()
	return feature.New(
		weather,
		drought,
		&mockTerrain{terrain: feature.Terrain{ElevationM: 120, SlopeDeg: 8, AspectDeg: 180}, found: true},
		&mockPopulation{density: 3200, found: true},
		slog.Default(),
	)
}

// --- tests ---

func TestAssemble_FullData(t *testing.T) {
	win := testWindow(t)
	weather := &mockWeather{obs: dryObservations(win)}
	drought := &mockDrought{rec: feature.DroughtRecord{Level: 3}, found: true}
	a := fullAssembler(t, weather, drought)

	vec, imputed, err := a.Assemble(context.Background(), testLoc, win)
	require.NoError(t, err)

	assert.Equal(t, domain.SchemaVersion1, vec.SchemaVersion)
	assert.Empty(t, imputed)

	fields, err := domain.SchemaFields(domain.SchemaVersion1)
	require.NoError(t, err)
	assert.Len(t, vec.Values, len(fields))

	byName := make(map[string]float64, len(fields))
	for i, f := range fields {
		byName[f.Name] = vec.Values[i]
	}
	assert.InDelta(t, 36, byName["tmax_mean_c"], 1e-9)
	assert.InDelta(t, 36, byName["tmax_max_c"], 1e-9)
	assert.InDelta(t, 20, byName["tmin_mean_c"], 1e-9)
	assert.InDelta(t, 0, byName["precip_total_mm"], 1e-9)
	assert.InDelta(t, 30, byName["days_since_rain"], 1e-9)
	assert.InDelta(t, 4.5, byName["wind_mean_mps"], 1e-9)
	assert.InDelta(t, 3, byName["drought_level"], 1e-9)
	assert.InDelta(t, 120, byName["elevation_m"], 1e-9)
	assert.InDelta(t, 3200, byName["population_density"], 1e-9)
}

func TestAssemble_DaysSinceRain(t *testing.T) {
	win := testWindow(t)
	obs := dryObservations(win)
	// Rain 10 days before the window end.
	rainDay := win.End().AddDate(0, 0, -10)
	for i := range obs {
		if obs[i].Date.Equal(rainDay) {
			obs[i].PrecipMM = 12
		}
	}
	weather := &mockWeather{obs: obs}
	a := fullAssembler(t, weather, &mockDrought{found: false})

	vec, _, err := a.Assemble(context.Background(), testLoc, win)
	require.NoError(t, err)

	fields, _ := domain.SchemaFields(domain.SchemaVersion1)
	for i, f := range fields {
		if f.Name == "days_since_rain" {
			assert.InDelta(t, 10, vec.Values[i], 1e-9)
		}
		if f.Name == "precip_total_mm" {
			assert.InDelta(t, 12, vec.Values[i], 1e-9)
		}
	}
}

func TestAssemble_PartialData_Imputes(t *testing.T) {
	win := testWindow(t)
	weather := &mockWeather{obs: dryObservations(win)}
	a := feature.New(weather, &mockDrought{found: false}, &mockTerrain{found: false}, &mockPopulation{found: false}, slog.Default())

	vec, imputed, err := a.Assemble(context.Background(), testLoc, win)
	require.NoError(t, err)

	fields, _ := domain.SchemaFields(domain.SchemaVersion1)
	assert.Len(t, vec.Values, len(fields), "imputation must keep the fixed schema length")
	assert.ElementsMatch(t, []string{
		"drought_level", "elevation_m", "slope_deg", "aspect_sin", "aspect_cos", "population_density",
	}, imputed)
}

func TestAssemble_Idempotent(t *testing.T) {
	win := testWindow(t)
	weather := &mockWeather{obs: dryObservations(win)}
	a := feature.New(weather, &mockDrought{found: false}, &mockTerrain{found: false}, &mockPopulation{found: false}, slog.Default())

	first, firstImputed, err := a.Assemble(context.Background(), testLoc, win)
	require.NoError(t, err)
	second, secondImputed, err := a.Assemble(context.Background(), testLoc, win)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("vectors differ across identical calls (-first +second):\n%s", diff)
	}
	assert.Equal(t, firstImputed, secondImputed)
}

func TestAssemble_CompleteGap(t *testing.T) {
	win := testWindow(t)
	a := fullAssembler(t, &mockWeather{}, &mockDrought{found: false})

	_, _, err := a.Assemble(context.Background(), testLoc, win)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestAssemble_DroughtOnly(t *testing.T) {
	// Weather missing entirely but drought present: not a hard failure,
	// weather features are imputed.
	win := testWindow(t)
	a := fullAssembler(t, &mockWeather{}, &mockDrought{rec: feature.DroughtRecord{Level: 2}, found: true})

	vec, imputed, err := a.Assemble(context.Background(), testLoc, win)
	require.NoError(t, err)
	assert.Contains(t, imputed, "tmax_mean_c")
	assert.Contains(t, imputed, "precip_total_mm")
	assert.NotContains(t, imputed, "drought_level")

	fields, _ := domain.SchemaFields(domain.SchemaVersion1)
	assert.Len(t, vec.Values, len(fields))
}

func TestAssemble_WeatherStoreError(t *testing.T) {
	win := testWindow(t)
	storeErr := errors.New("connection refused")
	a := fullAssembler(t, &mockWeather{err: storeErr}, &mockDrought{found: true})

	_, _, err := a.Assemble(context.Background(), testLoc, win)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}
