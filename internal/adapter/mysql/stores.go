package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/feature"
)

// Store implements the feature package's reference-store interfaces over
// one shared connection pool.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open reference-database pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Observations returns daily weather rows for the grid cell containing loc.
func (s *Store) Observations(ctx context.Context, loc domain.Location, start, end time.Time) ([]feature.WeatherObservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT obs_date, tmax_c, tmin_c, precip_mm, wind_mps
		FROM weather_daily
		WHERE grid_lat = ? AND grid_lon = ? AND obs_date BETWEEN ? AND ?
		ORDER BY obs_date`,
		gridCell(loc.Lat), gridCell(loc.Lon), start, end)
	if err != nil {
		return nil, fmt.Errorf("query weather_daily: %w", err)
	}
	defer rows.Close()

	var obs []feature.WeatherObservation
	for rows.Next() {
		var o feature.WeatherObservation
		var wind sql.NullFloat64
		if err := rows.Scan(&o.Date, &o.TMaxC, &o.TMinC, &o.PrecipMM, &wind); err != nil {
			return nil, fmt.Errorf("scan weather_daily row: %w", err)
		}
		if wind.Valid {
			w := wind.Float64
			o.WindMPS = &w
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weather_daily rows: %w", err)
	}
	return obs, nil
}

// LatestLevel returns the most recent weekly drought classification whose
// valid period starts inside the range.
func (s *Store) LatestLevel(ctx context.Context, loc domain.Location, start, end time.Time) (feature.DroughtRecord, bool, error) {
	var rec feature.DroughtRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT valid_start, level
		FROM drought_weekly
		WHERE grid_lat = ? AND grid_lon = ? AND valid_start BETWEEN ? AND ?
		ORDER BY valid_start DESC
		LIMIT 1`,
		gridCell(loc.Lat), gridCell(loc.Lon), start, end).
		Scan(&rec.ValidStart, &rec.Level)
	if errors.Is(err, sql.ErrNoRows) {
		return feature.DroughtRecord{}, false, nil
	}
	if err != nil {
		return feature.DroughtRecord{}, false, fmt.Errorf("query drought_weekly: %w", err)
	}
	return rec, true, nil
}

// Terrain returns static topography for the grid cell containing loc.
func (s *Store) Terrain(ctx context.Context, loc domain.Location) (feature.Terrain, bool, error) {
	var t feature.Terrain
	err := s.db.QueryRowContext(ctx, `
		SELECT elevation_m, slope_deg, aspect_deg
		FROM terrain
		WHERE grid_lat = ? AND grid_lon = ?`,
		gridCell(loc.Lat), gridCell(loc.Lon)).
		Scan(&t.ElevationM, &t.SlopeDeg, &t.AspectDeg)
	if errors.Is(err, sql.ErrNoRows) {
		return feature.Terrain{}, false, nil
	}
	if err != nil {
		return feature.Terrain{}, false, fmt.Errorf("query terrain: %w", err)
	}
	return t, true, nil
}

// Density returns the most recent population density estimate for the grid
// cell containing loc.
func (s *Store) Density(ctx context.Context, loc domain.Location) (float64, bool, error) {
	var density float64
	err := s.db.QueryRowContext(ctx, `
		SELECT density_per_km2
		FROM population_density
		WHERE grid_lat = ? AND grid_lon = ?
		ORDER BY year DESC
		LIMIT 1`,
		gridCell(loc.Lat), gridCell(loc.Lon)).
		Scan(&density)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query population_density: %w", err)
	}
	return density, true, nil
}
