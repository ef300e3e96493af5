// Command genmock generates a synthetic labeled training extract for local
// development and testing. Conditions follow a rough California seasonal
// cycle so that the fitted model separates dry-season from wet-season risk;
// generation is seeded and reproducible.
//
// Usage:
//
//	go run ./cmd/genmock -days 730 -out data/extracts/synthetic.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/dataset"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

var baseDate = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	days := flag.Int("days", 730, "number of consecutive daily examples to generate")
	out := flag.String("out", "", "output path for the CSV extract")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *days < 1 {
		return fmt.Errorf("-days must be positive, got %d", *days)
	}

	rng := rand.New(rand.NewSource(*seed))
	rows := make([]dataset.Row, 0, *days)
	positives := 0
	for i := 0; i < *days; i++ {
		row := syntheticRow(baseDate.AddDate(0, 0, i), rng)
		positives += row.FireOccurred
		rows = append(rows, row)
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create extract: %w", err)
	}
	defer f.Close()

	if err := dataset.WriteRows(f, rows); err != nil {
		return err
	}
	log.Printf("wrote %d examples (%d positive) to %s", len(rows), positives, *out)
	return nil
}

// syntheticRow fabricates one day of foothill conditions. dryness peaks in
// late summer and drives both the weather features and the fire outcome.
func syntheticRow(date time.Time, rng *rand.Rand) dataset.Row {
	// Dryness cycle: 0 in midwinter, 1 in late summer (day 240 of the year).
	yearDay := float64(date.YearDay())
	dryness := 0.5 - 0.5*math.Cos(2*math.Pi*(yearDay-60)/365)

	tmaxMean := 12 + 22*dryness + rng.NormFloat64()*2
	precip := math.Max(0, (1-dryness)*40+rng.NormFloat64()*10)
	daysSinceRain := math.Round(dryness*28 + rng.Float64()*3)
	drought := math.Min(4, math.Floor(dryness*5))

	monthSin, monthCos := domain.SeasonalEncoding(date)

	// Outcome probability rises with dryness; noise keeps classes mixed.
	outcome := 0
	if rng.Float64() < 0.05+0.6*dryness*dryness {
		outcome = 1
	}

	return dataset.Row{
		Date:              date.Format(dataset.DateLayout),
		TMaxMeanC:         tmaxMean,
		TMaxMaxC:          tmaxMean + 4 + rng.Float64()*3,
		TMinMeanC:         tmaxMean - 12 - rng.Float64()*4,
		PrecipTotalMM:     precip,
		DaysSinceRain:     daysSinceRain,
		WindMeanMPS:       2.5 + rng.Float64()*4,
		DroughtLevel:      drought,
		ElevationM:        450,
		SlopeDeg:          14,
		AspectSin:         0.7,
		AspectCos:         0.71,
		PopulationDensity: 320,
		MonthSin:          monthSin,
		MonthCos:          monthCos,
		FireOccurred:      outcome,
	}
}
