// Package influx implements the weather store over InfluxDB v2, for
// deployments that land GHCN-Daily aggregates in a time-series bucket
// instead of MySQL.
//
// Points are expected in measurement "weather", tagged with the 0.25-degree
// grid cell (grid_lat, grid_lon) and carrying fields tmax_c, tmin_c,
// precip_mm, and optionally wind_mps, one point per day.
package influx

import (
	"context"
	"fmt"
	"math"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/config"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/feature"
)

// WeatherStore serves daily weather observations from an InfluxDB bucket.
type WeatherStore struct {
	client   influxdb2.Client
	queryAPI api.QueryAPI
	bucket   string
}

// NewWeatherStore creates an InfluxDB-backed weather store.
func NewWeatherStore(cfg config.InfluxConfig) *WeatherStore {
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &WeatherStore{
		client:   client,
		queryAPI: client.QueryAPI(cfg.Org),
		bucket:   cfg.Bucket,
	}
}

// Close releases the underlying HTTP client.
func (s *WeatherStore) Close() {
	s.client.Close()
}

// Observations queries daily weather points for the grid cell containing
// loc, pivoted so each day's fields arrive as one record.
func (s *WeatherStore) Observations(ctx context.Context, loc domain.Location, start, end time.Time) ([]feature.WeatherObservation, error) {
	flux := fmt.Sprintf(`
from(bucket: %q)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == "weather")
  |> filter(fn: (r) => r.grid_lat == %q and r.grid_lon == %q)
  |> pivot(rowKey: ["_time"], columnKey: ["_field"], valueColumn: "_value")
  |> sort(columns: ["_time"])`,
		s.bucket,
		start.UTC().Format(time.RFC3339),
		end.UTC().AddDate(0, 0, 1).Format(time.RFC3339),
		cellTag(loc.Lat), cellTag(loc.Lon))

	result, err := s.queryAPI.Query(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("query influx weather bucket: %w", err)
	}
	defer result.Close()

	var obs []feature.WeatherObservation
	for result.Next() {
		rec := result.Record()
		o := feature.WeatherObservation{
			Date:     rec.Time().UTC().Truncate(24 * time.Hour),
			TMaxC:    fieldValue(rec.Values(), "tmax_c"),
			TMinC:    fieldValue(rec.Values(), "tmin_c"),
			PrecipMM: fieldValue(rec.Values(), "precip_mm"),
		}
		if v, ok := rec.Values()["wind_mps"].(float64); ok {
			o.WindMPS = &v
		}
		obs = append(obs, o)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterate influx weather result: %w", err)
	}
	return obs, nil
}

func fieldValue(values map[string]interface{}, key string) float64 {
	if v, ok := values[key].(float64); ok {
		return v
	}
	return 0
}

// cellTag renders the 0.25-degree grid cell tag value for a coordinate.
func cellTag(v float64) string {
	return fmt.Sprintf("%.2f", math.Round(v*4)/4)
}
