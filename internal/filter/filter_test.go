package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vneplab/evalgrid/internal/model"
)

func record(scenarioID string, params model.Params) model.PlotRecord {
	return model.PlotRecord{
		TaskKey: model.TaskKey{
			ScenarioID:  scenarioID,
			AlgorithmID: "mip_mcf",
			ConfigIndex: 0,
		},
		GenerationParameters: params,
		Status:               model.StatusSuccess,
	}
}

func TestSubsets(t *testing.T) {
	t.Run("enumerates sizes zero through max depth", func(t *testing.T) {
		subsets := Subsets([]string{"a", "b", "c"}, 2)
		// C(3,0) + C(3,1) + C(3,2) = 1 + 3 + 3
		require.Len(t, subsets, 7)
		assert.Empty(t, subsets[0])
		assert.Equal(t, [][]string{nil, {"a"}, {"b"}, {"c"}, {"a", "b"}, {"a", "c"}, {"b", "c"}}, subsets)
	})

	t.Run("depth beyond key count is clamped", func(t *testing.T) {
		subsets := Subsets([]string{"a", "b"}, 5)
		// 1 + 2 + 1
		assert.Len(t, subsets, 4)
	})

	t.Run("no keys at depth zero yields only the empty subset", func(t *testing.T) {
		subsets := Subsets(nil, 0)
		require.Len(t, subsets, 1)
		assert.Empty(t, subsets[0])
	})
}

func TestGroupsEmptySubsetAggregatesEverything(t *testing.T) {
	records := []model.PlotRecord{
		record("s1", model.Params{"number_of_requests": float64(40)}),
		record("s2", model.Params{"number_of_requests": float64(60)}),
	}

	groups := Groups(records, nil, 0)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Keys)
	assert.Equal(t, records, groups[0].Members)
	assert.Equal(t, "no filter", groups[0].Label())
}

func TestGroupsStrictPartitionPerSubset(t *testing.T) {
	var records []model.PlotRecord
	for i := 0; i < 12; i++ {
		records = append(records, record(fmt.Sprintf("s%d", i), model.Params{
			"number_of_requests":   float64(40 + 20*(i%3)),
			"edge_resource_factor": float64(1 + i%2),
		}))
	}

	keys := []string{"number_of_requests", "edge_resource_factor"}
	groups := Groups(records, keys, 2)

	// Subsets: {}, {nor}, {erf}, {nor, erf} with 1, 3, 2 and 6 groups.
	require.Len(t, groups, 1+3+2+6)

	// Every record appears exactly once per subset.
	bySubset := make(map[string]int)
	for _, group := range groups {
		subsetID := fmt.Sprintf("%v", group.Keys)
		bySubset[subsetID] += len(group.Members)
	}
	for subsetID, total := range bySubset {
		assert.Equal(t, len(records), total, "subset %s lost or duplicated records", subsetID)
	}
}

func TestGroupsDeterministicOrdering(t *testing.T) {
	records := []model.PlotRecord{
		record("s1", model.Params{"n": float64(100)}),
		record("s2", model.Params{"n": float64(20)}),
		record("s3", model.Params{"n": float64(3)}),
	}

	groups := Groups(records, []string{"n"}, 1)
	require.Len(t, groups, 4)

	// Numeric ordering, not lexical: 3 < 20 < 100.
	assert.Equal(t, float64(3), groups[1].Values["n"])
	assert.Equal(t, float64(20), groups[2].Values["n"])
	assert.Equal(t, float64(100), groups[3].Values["n"])

	again := Groups(records, []string{"n"}, 1)
	assert.Equal(t, groups, again)
}

func TestGroupsExcludesRecordsMissingAKey(t *testing.T) {
	complete := record("s1", model.Params{"n": float64(40), "f": float64(0.5)})
	missing := record("s2", model.Params{"n": float64(40)})
	records := []model.PlotRecord{complete, missing}

	groups := Groups(records, []string{"f"}, 1)
	require.Len(t, groups, 2)

	// The empty subset keeps both; the {f} subset only the complete one.
	assert.Len(t, groups[0].Members, 2)
	require.Len(t, groups[1].Members, 1)
	assert.Equal(t, "s1", groups[1].Members[0].ScenarioID)
}

func TestGroupsUnknownKeyYieldsNoGroups(t *testing.T) {
	records := []model.PlotRecord{record("s1", model.Params{"n": float64(1)})}

	groups := Groups(records, []string{"does_not_exist"}, 1)
	// Only the empty subset produces a group; the unknown key's subset is
	// empty rather than an error.
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Keys)
}

func TestGroupLabel(t *testing.T) {
	group := Group{
		Keys:   []string{"number_of_requests", "topology"},
		Values: map[string]any{"number_of_requests": float64(40), "topology": "Geant2012"},
	}
	assert.Equal(t, "number_of_requests=40; topology=Geant2012", group.Label())
}

func TestPrune(t *testing.T) {
	records := []model.PlotRecord{
		record("s1", model.Params{"topology": "Geant2012"}),
		record("s2", model.Params{"topology": "Uunet"}),
		record("s3", model.Params{"topology": "Geant2012"}),
	}

	t.Run("forbidden scenarios are dropped", func(t *testing.T) {
		kept := Prune(records, nil, []string{"s2"})
		require.Len(t, kept, 2)
		assert.Equal(t, "s1", kept[0].ScenarioID)
		assert.Equal(t, "s3", kept[1].ScenarioID)
	})

	t.Run("excluded parameter values are dropped", func(t *testing.T) {
		kept := Prune(records, map[string][]any{"topology": {"Geant2012"}}, nil)
		require.Len(t, kept, 1)
		assert.Equal(t, "s2", kept[0].ScenarioID)
	})

	t.Run("numeric exclusion matches across int and float decoding", func(t *testing.T) {
		numbered := []model.PlotRecord{record("s1", model.Params{"n": float64(40)})}
		kept := Prune(numbered, map[string][]any{"n": {int64(40)}}, nil)
		assert.Empty(t, kept)
	})
}
