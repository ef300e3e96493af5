package domain

import "errors"

// Sentinel errors forming the failure taxonomy. Call sites wrap these with
// fmt.Errorf("...: %w", Err...) so boundaries can classify with errors.Is
// while logs keep the full context.
var (
	// ErrInvalidRequest marks malformed or out-of-bounds client input.
	// Maps to a 4xx response; never retried.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDataUnavailable marks a complete reference-data gap for a window:
	// no weather and no drought records at all. Partial gaps are recovered
	// via imputation and are not errors.
	ErrDataUnavailable = errors.New("reference data unavailable")

	// ErrSchemaMismatch marks version skew between a feature vector and the
	// model serving it. Fatal to the request, logged for operator attention.
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrTrainingFailed marks a failed training run: convergence failure,
	// insufficient examples, or temporal leakage in the split. A failed run
	// never replaces the active model.
	ErrTrainingFailed = errors.New("training failed")

	// ErrServiceUnavailable marks a transient upstream condition surfaced
	// to callers, including data gaps and request-timeout expiry.
	ErrServiceUnavailable = errors.New("service unavailable")
)
