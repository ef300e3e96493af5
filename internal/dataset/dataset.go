// Package dataset reads and writes labeled training extracts as CSV.
// Each row is one (location, target date) example with every schema v1
// feature fully populated plus the recorded fire outcome.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/model"
)

// DateLayout is the target-date format used in training extracts.
const DateLayout = "2006-01-02"

// Row is one labeled example in CSV form. Column names match the schema v1
// feature names so an extract is self-describing.
type Row struct {
	Date              string  `csv:"date"`
	TMaxMeanC         float64 `csv:"tmax_mean_c"`
	TMaxMaxC          float64 `csv:"tmax_max_c"`
	TMinMeanC         float64 `csv:"tmin_mean_c"`
	PrecipTotalMM     float64 `csv:"precip_total_mm"`
	DaysSinceRain     float64 `csv:"days_since_rain"`
	WindMeanMPS       float64 `csv:"wind_mean_mps"`
	DroughtLevel      float64 `csv:"drought_level"`
	ElevationM        float64 `csv:"elevation_m"`
	SlopeDeg          float64 `csv:"slope_deg"`
	AspectSin         float64 `csv:"aspect_sin"`
	AspectCos         float64 `csv:"aspect_cos"`
	PopulationDensity float64 `csv:"population_density"`
	MonthSin          float64 `csv:"month_sin"`
	MonthCos          float64 `csv:"month_cos"`
	FireOccurred      int     `csv:"fire_occurred"`
}

// ToExample converts a CSV row into a labeled example with a fully
// observed schema v1 vector.
func (r Row) ToExample() (model.LabeledExample, error) {
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return model.LabeledExample{}, fmt.Errorf("parse date %q: %w", r.Date, err)
	}
	if r.FireOccurred != 0 && r.FireOccurred != 1 {
		return model.LabeledExample{}, fmt.Errorf("fire_occurred must be 0 or 1, got %d", r.FireOccurred)
	}

	vec, err := domain.NewFeatureVector(domain.SchemaVersion1)
	if err != nil {
		return model.LabeledExample{}, err
	}
	values := map[string]float64{
		"tmax_mean_c":        r.TMaxMeanC,
		"tmax_max_c":         r.TMaxMaxC,
		"tmin_mean_c":        r.TMinMeanC,
		"precip_total_mm":    r.PrecipTotalMM,
		"days_since_rain":    r.DaysSinceRain,
		"wind_mean_mps":      r.WindMeanMPS,
		"drought_level":      r.DroughtLevel,
		"elevation_m":        r.ElevationM,
		"slope_deg":          r.SlopeDeg,
		"aspect_sin":         r.AspectSin,
		"aspect_cos":         r.AspectCos,
		"population_density": r.PopulationDensity,
		"month_sin":          r.MonthSin,
		"month_cos":          r.MonthCos,
	}
	for name, value := range values {
		if err := vec.Set(name, value); err != nil {
			return model.LabeledExample{}, err
		}
	}

	return model.LabeledExample{
		Vector:  vec,
		Date:    date.UTC(),
		Outcome: r.FireOccurred,
	}, nil
}

// ReadExamples decodes a labeled extract. Rows come back in file order;
// callers relying on temporal splits need the extract sorted by date.
func ReadExamples(r io.Reader) ([]model.LabeledExample, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("read extract header: %w", err)
	}

	var examples []model.LabeledExample
	for {
		var row Row
		if err := dec.Decode(&row); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decode extract row %d: %w", len(examples)+1, err)
		}
		ex, err := row.ToExample()
		if err != nil {
			return nil, fmt.Errorf("extract row %d: %w", len(examples)+1, err)
		}
		examples = append(examples, ex)
	}
	return examples, nil
}

// WriteRows encodes an extract with a header row.
func WriteRows(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("encode extract row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
