package runner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vneplab/evalgrid/internal/model"
)

// Adapter solves one scenario under one execution config and returns the
// solver's raw result document. Adapters must be safe for concurrent calls;
// the runner treats them as opaque and enforces timeouts externally, but a
// cooperative adapter should still honor ctx so an abandoned call does not
// leak work.
type Adapter interface {
	Solve(ctx context.Context, scenario model.ScenarioInstance, cfg model.ExecutionConfig) (json.RawMessage, error)
}

// AdapterResolver maps an algorithm ID to its adapter.
type AdapterResolver interface {
	Lookup(algorithmID string) (Adapter, bool)
}

// SolverError marks a failure signaled by the solver itself, as opposed to
// a timeout imposed by the runner.
type SolverError struct {
	AlgorithmID string
	Err         error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver %s: %v", e.AlgorithmID, e.Err)
}

func (e *SolverError) Unwrap() error {
	return e.Err
}
