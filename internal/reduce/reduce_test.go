package reduce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vneplab/evalgrid/internal/model"
	"github.com/vneplab/evalgrid/internal/scenario"
)

func testStore(t *testing.T) *scenario.Store {
	t.Helper()
	store, err := scenario.NewStore([]model.ScenarioInstance{
		{ScenarioID: "s1", GenerationParameters: model.Params{"number_of_requests": float64(40)}},
		{ScenarioID: "s2", GenerationParameters: model.Params{"number_of_requests": float64(60)}},
	})
	require.NoError(t, err)
	return store
}

func mcfRecord(scenarioID string, payload string) model.ResultRecord {
	return model.ResultRecord{
		TaskKey:        model.TaskKey{ScenarioID: scenarioID, AlgorithmID: "mip_mcf", ConfigIndex: 0},
		Status:         model.StatusSuccess,
		Payload:        json.RawMessage(payload),
		RuntimeSeconds: 12.5,
	}
}

func TestReduceMCF(t *testing.T) {
	reducer := New(testStore(t))
	rec := mcfRecord("s1", `{
		"objective": 420.5,
		"objective_gap": 0.04,
		"objective_bound": 437.2,
		"embedding_ratio": 0.85,
		"feasible_requests": 38,
		"node_loads": {"u1": 0.2, "u2": 0.6},
		"edge_loads": {"e1": 0.5, "e2": 0.7},
		"solver_internal_log": ["ignored"]
	}`)

	plot, err := reducer.Reduce(rec)
	require.NoError(t, err)

	assert.Equal(t, rec.TaskKey, plot.TaskKey)
	assert.Equal(t, model.StatusSuccess, plot.Status)
	assert.Equal(t, model.Params{"number_of_requests": float64(40)}, plot.GenerationParameters)

	assert.InDelta(t, 420.5, plot.Metrics["objective"], 1e-9)
	assert.InDelta(t, 0.04, plot.Metrics["objective_gap"], 1e-9)
	assert.InDelta(t, 0.85, plot.Metrics["embedding_ratio"], 1e-9)
	assert.InDelta(t, 0.4, plot.Metrics["avg_node_load"], 1e-9)
	assert.InDelta(t, 0.6, plot.Metrics["max_node_load"], 1e-9)
	assert.InDelta(t, 0.7, plot.Metrics["max_edge_load"], 1e-9)
	assert.InDelta(t, 12.5, plot.Metrics["runtime_seconds"], 1e-9)
}

func TestReduceRandRound(t *testing.T) {
	reducer := New(testStore(t))
	rec := model.ResultRecord{
		TaskKey:        model.TaskKey{ScenarioID: "s2", AlgorithmID: "randround", ConfigIndex: 3},
		Status:         model.StatusSuccess,
		Payload:        json.RawMessage(`{"best_objective": 390.0, "lp_objective": 410.0, "rounding_samples": 1000, "max_node_load": 1.2}`),
		RuntimeSeconds: 3.25,
	}

	plot, err := reducer.Reduce(rec)
	require.NoError(t, err)
	assert.InDelta(t, 390.0, plot.Metrics["objective"], 1e-9)
	assert.InDelta(t, 410.0, plot.Metrics["lp_objective"], 1e-9)
	assert.InDelta(t, 1.2, plot.Metrics["max_node_load"], 1e-9)
	assert.NotContains(t, plot.Metrics, "max_edge_load")
}

func TestReduceIsDeterministic(t *testing.T) {
	reducer := New(testStore(t))
	rec := mcfRecord("s1", `{"objective": 1.0, "node_loads": {"a": 0.1, "b": 0.3, "c": 0.2}}`)

	first, err := reducer.Reduce(rec)
	require.NoError(t, err)
	second, err := reducer.Reduce(rec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReduceNeverRetainsPayload(t *testing.T) {
	reducer := New(testStore(t))
	marker := "very-large-solver-internal-state"
	rec := mcfRecord("s1", `{"objective": 1.0, "internal": "`+marker+`"}`)

	plot, err := reducer.Reduce(rec)
	require.NoError(t, err)

	encoded, err := json.Marshal(plot)
	require.NoError(t, err)
	assert.NotContains(t, string(encoded), marker)
}

func TestReduceNonSuccessKeepsAccountingRecord(t *testing.T) {
	reducer := New(testStore(t))
	rec := model.ResultRecord{
		TaskKey:        model.TaskKey{ScenarioID: "s1", AlgorithmID: "mip_mcf", ConfigIndex: 1},
		Status:         model.StatusTimeout,
		Diagnostic:     "adapter exceeded task timeout of 1s",
		RuntimeSeconds: 1.0,
	}

	plot, err := reducer.Reduce(rec)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTimeout, plot.Status)
	assert.Nil(t, plot.Metrics)
	assert.Equal(t, model.Params{"number_of_requests": float64(40)}, plot.GenerationParameters)
}

func TestReduceFailures(t *testing.T) {
	reducer := New(testStore(t))

	t.Run("unknown algorithm", func(t *testing.T) {
		rec := mcfRecord("s1", `{"objective": 1.0}`)
		rec.AlgorithmID = "unheard_of"
		_, err := reducer.Reduce(rec)
		var reductionErr *ReductionError
		require.ErrorAs(t, err, &reductionErr)
	})

	t.Run("missing required field", func(t *testing.T) {
		_, err := reducer.Reduce(mcfRecord("s1", `{"embedding_ratio": 0.5}`))
		var reductionErr *ReductionError
		require.ErrorAs(t, err, &reductionErr)
		assert.ErrorContains(t, err, "objective")
	})

	t.Run("incompatible payload shape", func(t *testing.T) {
		_, err := reducer.Reduce(mcfRecord("s1", `{"objective": "not a number"}`))
		var reductionErr *ReductionError
		require.ErrorAs(t, err, &reductionErr)
	})

	t.Run("scenario missing from store", func(t *testing.T) {
		_, err := reducer.Reduce(mcfRecord("unknown", `{"objective": 1.0}`))
		var reductionErr *ReductionError
		require.ErrorAs(t, err, &reductionErr)
	})
}

func TestReduceAll(t *testing.T) {
	reducer := New(testStore(t))
	records := []model.ResultRecord{
		mcfRecord("s1", `{"objective": 1.0}`),
		mcfRecord("unknown", `{"objective": 2.0}`),
		mcfRecord("s2", `{"objective": 3.0}`),
	}

	t.Run("lenient collects failures", func(t *testing.T) {
		plots, failures, err := reducer.ReduceAll(records, false)
		require.NoError(t, err)
		assert.Len(t, plots, 2)
		assert.Len(t, failures, 1)
	})

	t.Run("strict aborts on the first failure", func(t *testing.T) {
		_, _, err := reducer.ReduceAll(records, true)
		var reductionErr *ReductionError
		require.ErrorAs(t, err, &reductionErr)
	})
}
