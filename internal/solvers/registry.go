// Package solvers provides the mapping from algorithm IDs to runnable
// adapters, plus the subprocess adapter used for solver binaries. The
// optimization algorithms themselves live outside this repository; they are
// invoked as black boxes that return a result document.
package solvers

import (
	"fmt"

	"github.com/vneplab/evalgrid/internal/runner"
)

// Registry maps algorithm IDs to adapters. Registration happens during
// startup wiring; a duplicate registration is a programmer error.
type Registry struct {
	adapters map[string]runner.Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]runner.Adapter)}
}

// Register binds an adapter to an algorithm ID.
func (r *Registry) Register(algorithmID string, adapter runner.Adapter) {
	if _, exists := r.adapters[algorithmID]; exists {
		panic(fmt.Sprintf("adapter for algorithm %q already registered", algorithmID))
	}
	r.adapters[algorithmID] = adapter
}

// Lookup implements runner.AdapterResolver.
func (r *Registry) Lookup(algorithmID string) (runner.Adapter, bool) {
	adapter, ok := r.adapters[algorithmID]
	return adapter, ok
}
