package model

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ftavafi/california-wildfire-risk-prediction-platform/internal/domain"
)

// LabeledExample pairs a feature vector with a historical fire outcome.
// Date is the target date the vector was assembled for; Outcome is 1 when
// an incident was recorded for the location and window, 0 otherwise.
type LabeledExample struct {
	Vector  domain.FeatureVector
	Date    time.Time
	Outcome int
}

// Hyperparameters control a training run.
type Hyperparameters struct {
	LearningRate       float64 `json:"learning_rate"`
	Epochs             int     `json:"epochs"`
	L2                 float64 `json:"l2"`
	ValidationFraction float64 `json:"validation_fraction"`
	MinExamples        int     `json:"min_examples"`
}

// DefaultHyperparameters returns the standard training configuration.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		LearningRate:       0.1,
		Epochs:             500,
		L2:                 0.001,
		ValidationFraction: 0.2,
		MinExamples:        50,
	}
}

func (hp Hyperparameters) withDefaults() Hyperparameters {
	d := DefaultHyperparameters()
	if hp.LearningRate <= 0 {
		hp.LearningRate = d.LearningRate
	}
	if hp.Epochs <= 0 {
		hp.Epochs = d.Epochs
	}
	if hp.L2 < 0 {
		hp.L2 = d.L2
	}
	if hp.ValidationFraction <= 0 || hp.ValidationFraction >= 1 {
		hp.ValidationFraction = d.ValidationFraction
	}
	if hp.MinExamples <= 0 {
		hp.MinExamples = d.MinExamples
	}
	return hp
}

// Train fits a logistic regression on historical labeled examples.
//
// Examples must be supplied in nondecreasing date order, the natural order
// of a historical extract. The trailing ValidationFraction becomes the
// validation split, so validation always postdates training; any example
// dated before its predecessor fails the run, since an out-of-order input
// would leak future information into training. Fails with TrainingError on
// ordering violations, insufficient examples, missing class representation
// in either split, or divergence during optimization.
func Train(examples []LabeledExample, hp Hyperparameters) (*TrainedModel, error) {
	hp = hp.withDefaults()

	if len(examples) < hp.MinExamples {
		return nil, fmt.Errorf("need at least %d examples, got %d: %w",
			hp.MinExamples, len(examples), domain.ErrTrainingFailed)
	}

	schemaVersion := examples[0].Vector.SchemaVersion
	fields, err := domain.SchemaFields(schemaVersion)
	if err != nil {
		return nil, fmt.Errorf("examples use %q: %w", schemaVersion, domain.ErrTrainingFailed)
	}
	for i, ex := range examples {
		if ex.Vector.SchemaVersion != schemaVersion {
			return nil, fmt.Errorf("example %d uses schema %q, expected %q: %w",
				i, ex.Vector.SchemaVersion, schemaVersion, domain.ErrTrainingFailed)
		}
		if len(ex.Vector.Values) != len(fields) {
			return nil, fmt.Errorf("example %d has %d values, schema %s has %d: %w",
				i, len(ex.Vector.Values), schemaVersion, len(fields), domain.ErrTrainingFailed)
		}
	}

	if !sort.SliceIsSorted(examples, func(i, j int) bool {
		return examples[i].Date.Before(examples[j].Date)
	}) {
		return nil, fmt.Errorf("examples are not in date order; a temporally unordered split leaks future data: %w",
			domain.ErrTrainingFailed)
	}

	nVal := int(math.Round(hp.ValidationFraction * float64(len(examples))))
	if nVal < 1 {
		nVal = 1
	}
	nTrain := len(examples) - nVal
	if nTrain < 2 {
		return nil, fmt.Errorf("training split of %d is too small: %w", nTrain, domain.ErrTrainingFailed)
	}
	train, val := examples[:nTrain], examples[nTrain:]

	if err := checkClassRepresentation(train, "training"); err != nil {
		return nil, err
	}
	if err := checkClassRepresentation(val, "validation"); err != nil {
		return nil, err
	}

	means, stddevs := standardizationStats(train, len(fields))
	coefficients, intercept, err := fit(train, means, stddevs, hp)
	if err != nil {
		return nil, err
	}

	m := &TrainedModel{
		Version:        modelVersion(schemaVersion, coefficients, intercept),
		SchemaVersion:  schemaVersion,
		Coefficients:   coefficients,
		Intercept:      intercept,
		FeatureMeans:   means,
		FeatureStddevs: stddevs,
		Thresholds:     domain.DefaultThresholds,
		Metadata: Metadata{
			TrainedAt:          domain.Now().UTC(),
			TrainingExamples:   nTrain,
			ValidationExamples: nVal,
			Hyperparameters:    hp,
		},
	}

	scores := make([]float64, len(val))
	labels := make([]int, len(val))
	for i, ex := range val {
		score, _, perr := m.Predict(ex.Vector)
		if perr != nil {
			return nil, fmt.Errorf("score validation example %d: %w", i, perr)
		}
		scores[i] = score
		labels[i] = ex.Outcome
	}
	m.Metadata.AUC = rankAUC(scores, labels)
	m.Metadata.PrecisionAtHigh, m.Metadata.RecallAtHigh = precisionRecallAt(scores, labels, m.Thresholds.High)

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("trained model failed validation: %w", err)
	}
	return m, nil
}

func checkClassRepresentation(split []LabeledExample, name string) error {
	var pos, neg bool
	for _, ex := range split {
		if ex.Outcome == 1 {
			pos = true
		} else {
			neg = true
		}
	}
	if !pos || !neg {
		return fmt.Errorf("%s split lacks one outcome class (%d examples): %w",
			name, len(split), domain.ErrTrainingFailed)
	}
	return nil
}

// standardizationStats computes per-feature mean and stddev over the
// training split only, so validation data never influences scaling.
func standardizationStats(train []LabeledExample, width int) (means, stddevs []float64) {
	means = make([]float64, width)
	stddevs = make([]float64, width)
	n := float64(len(train))

	for _, ex := range train {
		for i, v := range ex.Vector.Values {
			means[i] += v
		}
	}
	for i := range means {
		means[i] /= n
	}
	for _, ex := range train {
		for i, v := range ex.Vector.Values {
			d := v - means[i]
			stddevs[i] += d * d
		}
	}
	for i := range stddevs {
		stddevs[i] = math.Sqrt(stddevs[i] / n)
		if stddevs[i] < 1e-9 {
			// Constant feature: unit scale keeps it inert.
			stddevs[i] = 1
		}
	}
	return means, stddevs
}

// fit runs batch gradient descent on the log-loss with L2 regularization.
func fit(train []LabeledExample, means, stddevs []float64, hp Hyperparameters) ([]float64, float64, error) {
	width := len(means)
	coefficients := make([]float64, width)
	intercept := 0.0
	n := float64(len(train))

	// Pre-standardize once; the loop is the hot path.
	std := make([][]float64, len(train))
	for i, ex := range train {
		row := make([]float64, width)
		for j, v := range ex.Vector.Values {
			row[j] = (v - means[j]) / stddevs[j]
		}
		std[i] = row
	}

	for epoch := 0; epoch < hp.Epochs; epoch++ {
		grad := make([]float64, width)
		gradIntercept := 0.0
		loss := 0.0

		for i, ex := range train {
			z := intercept
			for j, x := range std[i] {
				z += coefficients[j] * x
			}
			p := sigmoid(z)
			y := float64(ex.Outcome)
			diff := p - y
			for j, x := range std[i] {
				grad[j] += diff * x
			}
			gradIntercept += diff

			// Clamped log-loss, tracked only to detect divergence.
			p = math.Min(math.Max(p, 1e-12), 1-1e-12)
			loss += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		}

		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, 0, fmt.Errorf("loss diverged at epoch %d: %w", epoch, domain.ErrTrainingFailed)
		}

		for j := range coefficients {
			coefficients[j] -= hp.LearningRate * (grad[j]/n + hp.L2*coefficients[j])
		}
		intercept -= hp.LearningRate * gradIntercept / n
	}

	for j, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, 0, fmt.Errorf("coefficient %d is not finite after training: %w", j, domain.ErrTrainingFailed)
		}
	}
	return coefficients, intercept, nil
}

// rankAUC computes the area under the ROC curve by the rank-sum method,
// with midrank handling for tied scores.
func rankAUC(scores []float64, labels []int) float64 {
	type pair struct {
		score float64
		label int
	}
	pairs := make([]pair, len(scores))
	for i := range scores {
		pairs[i] = pair{scores[i], labels[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].score < pairs[j].score })

	ranks := make([]float64, len(pairs))
	for i := 0; i < len(pairs); {
		j := i
		for j < len(pairs) && pairs[j].score == pairs[i].score {
			j++
		}
		mid := float64(i+j+1) / 2 // 1-based midrank
		for k := i; k < j; k++ {
			ranks[k] = mid
		}
		i = j
	}

	var rankSumPos float64
	var nPos, nNeg int
	for i, p := range pairs {
		if p.label == 1 {
			rankSumPos += ranks[i]
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0
	}
	return (rankSumPos - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg))
}

// precisionRecallAt evaluates the positive class at a score threshold.
func precisionRecallAt(scores []float64, labels []int, threshold float64) (precision, recall float64) {
	var tp, fp, fn int
	for i, s := range scores {
		predicted := s >= threshold
		actual := labels[i] == 1
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		}
	}
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	return precision, recall
}
