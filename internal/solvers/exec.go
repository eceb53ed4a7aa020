package solvers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/vneplab/evalgrid/internal/model"
	"github.com/vneplab/evalgrid/internal/runner"
)

// solveRequest is the document written to the solver's stdin.
type solveRequest struct {
	Scenario model.ScenarioInstance `json:"scenario"`
	Config   model.ExecutionConfig  `json:"config"`
}

// ExecAdapter invokes a solver binary as a subprocess. The scenario and the
// execution config are passed as one JSON document on stdin; the solver
// writes its result document as JSON on stdout. Cancellation of ctx kills
// the subprocess, so an abandoned timed-out call does not linger.
type ExecAdapter struct {
	Command []string
}

// NewExecAdapter creates an adapter for the given argv. The command must
// not be empty.
func NewExecAdapter(command []string) (*ExecAdapter, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("solver command must not be empty")
	}
	return &ExecAdapter{Command: command}, nil
}

// Solve implements runner.Adapter.
func (a *ExecAdapter) Solve(ctx context.Context, scenario model.ScenarioInstance, cfg model.ExecutionConfig) (json.RawMessage, error) {
	request, err := json.Marshal(solveRequest{Scenario: scenario, Config: cfg})
	if err != nil {
		return nil, fmt.Errorf("encoding solve request: %w", err)
	}

	cmd := exec.CommandContext(ctx, a.Command[0], a.Command[1:]...)
	// Orphaned solver children holding the stdout pipe must not stall Wait
	// past cancellation.
	cmd.WaitDelay = 10 * time.Second
	cmd.Stdin = bytes.NewReader(request)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := err.Error()
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			diag = fmt.Sprintf("%v: %s", err, msg)
		}
		return nil, &runner.SolverError{AlgorithmID: cfg.AlgorithmID, Err: fmt.Errorf("%s", diag)}
	}

	payload := bytes.TrimSpace(stdout.Bytes())
	if !json.Valid(payload) {
		return nil, &runner.SolverError{
			AlgorithmID: cfg.AlgorithmID,
			Err:         fmt.Errorf("solver produced invalid JSON (%d bytes)", len(payload)),
		}
	}
	return json.RawMessage(payload), nil
}
