package model

import (
	"fmt"
	"sync/atomic"
)

// Registry holds the single active model serving predictions. Publish swaps
// the pointer atomically, so an in-flight prediction keeps the model it
// started with and never observes a half-updated artifact.
type Registry struct {
	active atomic.Pointer[TrainedModel]
}

// NewRegistry creates an empty registry. The service is not ready until
// the first successful Publish.
func NewRegistry() *Registry {
	return &Registry{}
}

// Active returns the currently published model, or nil when none is
// published yet.
func (r *Registry) Active() *TrainedModel {
	return r.active.Load()
}

// Publish validates the model and makes it the active version. In-flight
// predictions using the prior version are unaffected.
func (r *Registry) Publish(m *TrainedModel) error {
	if m == nil {
		return fmt.Errorf("cannot publish a nil model")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to publish: %w", err)
	}
	r.active.Store(m)
	return nil
}
