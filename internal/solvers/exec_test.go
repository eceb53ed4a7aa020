package solvers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vneplab/evalgrid/internal/model"
	"github.com/vneplab/evalgrid/internal/runner"
)

func testScenario() model.ScenarioInstance {
	return model.ScenarioInstance{
		ScenarioID:           "s1",
		GenerationParameters: model.Params{"number_of_requests": float64(40)},
	}
}

func testConfig() model.ExecutionConfig {
	return model.ExecutionConfig{
		AlgorithmID: "mip_mcf",
		ConfigIndex: 0,
		Parameters:  model.Params{"time_limit": int64(600)},
	}
}

func TestExecAdapterSolve(t *testing.T) {
	// Echo the request's config back so the test proves the solver saw it.
	adapter, err := NewExecAdapter([]string{"sh", "-c", `cat`})
	require.NoError(t, err)

	payload, err := adapter.Solve(context.Background(), testScenario(), testConfig())
	require.NoError(t, err)

	var request struct {
		Scenario model.ScenarioInstance `json:"scenario"`
		Config   model.ExecutionConfig  `json:"config"`
	}
	require.NoError(t, json.Unmarshal(payload, &request))
	assert.Equal(t, "s1", request.Scenario.ScenarioID)
	assert.Equal(t, "mip_mcf", request.Config.AlgorithmID)
}

func TestExecAdapterNonZeroExit(t *testing.T) {
	adapter, err := NewExecAdapter([]string{"sh", "-c", `echo "gurobi license expired" >&2; exit 3`})
	require.NoError(t, err)

	_, err = adapter.Solve(context.Background(), testScenario(), testConfig())
	require.Error(t, err)

	var solverErr *runner.SolverError
	require.ErrorAs(t, err, &solverErr)
	assert.Equal(t, "mip_mcf", solverErr.AlgorithmID)
	assert.ErrorContains(t, err, "gurobi license expired")
}

func TestExecAdapterInvalidJSON(t *testing.T) {
	adapter, err := NewExecAdapter([]string{"sh", "-c", `cat >/dev/null; echo "not json"`})
	require.NoError(t, err)

	_, err = adapter.Solve(context.Background(), testScenario(), testConfig())
	var solverErr *runner.SolverError
	require.ErrorAs(t, err, &solverErr)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestExecAdapterCanceledContext(t *testing.T) {
	adapter, err := NewExecAdapter([]string{"sh", "-c", `cat >/dev/null; sleep 30 >/dev/null 2>&1; echo '{}'`})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = adapter.Solve(ctx, testScenario(), testConfig())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "cancellation must kill the subprocess promptly")
}

func TestNewExecAdapterRejectsEmptyCommand(t *testing.T) {
	_, err := NewExecAdapter(nil)
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	adapter, err := NewExecAdapter([]string{"true"})
	require.NoError(t, err)

	registry.Register("mip_mcf", adapter)

	got, ok := registry.Lookup("mip_mcf")
	require.True(t, ok)
	assert.Same(t, adapter, got.(*ExecAdapter))

	_, ok = registry.Lookup("randround")
	assert.False(t, ok)

	assert.Panics(t, func() { registry.Register("mip_mcf", adapter) })
}
