// Command train fits a wildfire risk model from a labeled CSV extract and
// writes the artifact for the prediction service to load.
//
// Usage:
//
//	go run ./cmd/train \
//	  -input data/extracts/ca_labeled_2015_2024.csv \
//	  -out data/models/active.json
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/adapter/artifact"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/dataset"
	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/model"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	input := flag.String("input", "", "path to labeled CSV extract, sorted by date")
	out := flag.String("out", "", "output path for the model artifact")
	learningRate := flag.Float64("learning-rate", 0, "gradient descent step size (0 = default)")
	epochs := flag.Int("epochs", 0, "training epochs (0 = default)")
	l2 := flag.Float64("l2", 0, "L2 regularization strength (0 = default)")
	validationFraction := flag.Float64("validation-fraction", 0, "trailing fraction held out for validation (0 = default)")
	flag.Parse()

	if *input == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -input, -out")
	}

	f, err := os.Open(*input)
	if err != nil {
		return fmt.Errorf("open extract: %w", err)
	}
	defer f.Close()

	examples, err := dataset.ReadExamples(f)
	if err != nil {
		return err
	}
	log.Printf("loaded %d labeled examples from %s", len(examples), *input)

	hp := model.Hyperparameters{
		LearningRate:       *learningRate,
		Epochs:             *epochs,
		L2:                 *l2,
		ValidationFraction: *validationFraction,
	}
	trained, err := model.Train(examples, hp)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	log.Printf("trained model %s (schema %s)", trained.Version, trained.SchemaVersion)
	log.Printf("  training examples:   %d", trained.Metadata.TrainingExamples)
	log.Printf("  validation examples: %d", trained.Metadata.ValidationExamples)
	log.Printf("  validation AUC:      %.4f", trained.Metadata.AUC)
	log.Printf("  precision at high:   %.4f", trained.Metadata.PrecisionAtHigh)
	log.Printf("  recall at high:      %.4f", trained.Metadata.RecallAtHigh)

	if err := artifact.Save(*out, trained); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}
	log.Printf("artifact written to %s", *out)
	return nil
}
