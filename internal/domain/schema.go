package domain

import (
	"fmt"
	"math"
	"time"
)

// SchemaVersion1 identifies the v1 feature layout below.
const SchemaVersion1 = "v1"

// FeatureDef names one feature slot and the documented default substituted
// when the upstream store has no value for the window.
type FeatureDef struct {
	Name    string
	Default float64
}

// schemaV1 is the fixed v1 feature layout. Order is part of the schema:
// a TrainedModel's coefficients are positional.
//
// Defaults are rough California climatological mid-points, chosen so an
// imputed feature pulls the score toward neither extreme. days_since_rain
// defaults to the full lookback (no recorded rain is the conservative
// reading of a gap once some weather data exists); drought_level defaults
// to 0 (no drought designation).
var schemaV1 = []FeatureDef{
	{Name: "tmax_mean_c", Default: 24},
	{Name: "tmax_max_c", Default: 30},
	{Name: "tmin_mean_c", Default: 10},
	{Name: "precip_total_mm", Default: 20},
	{Name: "days_since_rain", Default: 30},
	{Name: "wind_mean_mps", Default: 3},
	{Name: "drought_level", Default: 0},
	{Name: "elevation_m", Default: 500},
	{Name: "slope_deg", Default: 10},
	{Name: "aspect_sin", Default: 0},
	{Name: "aspect_cos", Default: 0},
	{Name: "population_density", Default: 100},
	{Name: "month_sin", Default: 0},
	{Name: "month_cos", Default: 0},
}

// SchemaFields returns the ordered feature definitions for a schema version.
func SchemaFields(version string) ([]FeatureDef, error) {
	if version != SchemaVersion1 {
		return nil, fmt.Errorf("unknown feature schema version %q: %w", version, ErrSchemaMismatch)
	}
	return schemaV1, nil
}

// FeatureVector is an ordered mapping from schema slot to numeric value.
// Missing marks slots filled from the schema default rather than observed
// data; the slot is always present, never silently omitted.
type FeatureVector struct {
	SchemaVersion string    `json:"schema_version"`
	Values        []float64 `json:"values"`
	Missing       []bool    `json:"missing"`
}

// NewFeatureVector allocates a vector with every slot at its schema default
// and flagged missing. Assembly then overwrites the slots it has data for.
func NewFeatureVector(version string) (FeatureVector, error) {
	fields, err := SchemaFields(version)
	if err != nil {
		return FeatureVector{}, err
	}
	v := FeatureVector{
		SchemaVersion: version,
		Values:        make([]float64, len(fields)),
		Missing:       make([]bool, len(fields)),
	}
	for i, f := range fields {
		v.Values[i] = f.Default
		v.Missing[i] = true
	}
	return v, nil
}

// Set assigns an observed value to the named slot.
func (v *FeatureVector) Set(name string, value float64) error {
	fields, err := SchemaFields(v.SchemaVersion)
	if err != nil {
		return err
	}
	for i, f := range fields {
		if f.Name == name {
			v.Values[i] = value
			v.Missing[i] = false
			return nil
		}
	}
	return fmt.Errorf("feature %q is not part of schema %s: %w", name, v.SchemaVersion, ErrSchemaMismatch)
}

// MissingFields returns the names of slots still carrying their default.
func (v FeatureVector) MissingFields() []string {
	fields, err := SchemaFields(v.SchemaVersion)
	if err != nil {
		return nil
	}
	var names []string
	for i, f := range fields {
		if v.Missing[i] {
			names = append(names, f.Name)
		}
	}
	return names
}

// SeasonalEncoding returns the cyclical month encoding for a date. Month is
// mapped onto the unit circle so December and January are adjacent.
func SeasonalEncoding(t time.Time) (monthSin, monthCos float64) {
	angle := 2 * math.Pi * float64(int(t.UTC().Month())-1) / 12
	return math.Sin(angle), math.Cos(angle)
}
