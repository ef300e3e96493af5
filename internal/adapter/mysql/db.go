// Package mysql implements the reference-data store interfaces over the
// pre-aggregated MySQL database populated by the upstream ingestion jobs.
//
// All tables are keyed by a 0.25-degree grid cell. Expected schema:
//
//	weather_daily     (grid_lat, grid_lon, obs_date, tmax_c, tmin_c, precip_mm, wind_mps NULL)
//	drought_weekly    (grid_lat, grid_lon, valid_start, level)       -- level 0–4 for D0–D4
//	terrain           (grid_lat, grid_lon, elevation_m, slope_deg, aspect_deg)
//	population_density(grid_lat, grid_lon, year, density_per_km2)
//
// This package only reads; ingestion owns writes.
package mysql

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "github.com/go-sql-driver/mysql" // driver registration
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// Open creates a connection pool for the reference database and verifies
// connectivity.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open reference database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping reference database: %w", err)
	}
	return db, nil
}

// gridCell quantizes a coordinate to the 0.25-degree grid the reference
// tables are keyed by.
func gridCell(v float64) float64 {
	return math.Round(v*4) / 4
}
