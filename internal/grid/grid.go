// Package grid expands declarative parameter grids into execution configs.
// Expansion is a pure function: config indices are derived from input order
// alone, so the same definition always yields the same config set.
package grid

import (
	"sort"

	"github.com/vneplab/evalgrid/internal/config"
	"github.com/vneplab/evalgrid/internal/model"
)

// Expand produces the full execution config set for the given algorithm
// grids: per algorithm, the cross product of all candidate value lists.
// Parameter names are iterated in sorted order and values in declaration
// order, so ConfigIndex is stable for a fixed definition.
func Expand(algorithms []config.AlgorithmGrid) []model.ExecutionConfig {
	var configs []model.ExecutionConfig
	for _, alg := range algorithms {
		configs = append(configs, expandAlgorithm(alg)...)
	}
	return configs
}

func expandAlgorithm(alg config.AlgorithmGrid) []model.ExecutionConfig {
	names := make([]string, 0, len(alg.Parameters))
	for name := range alg.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)

	// An algorithm without parameters still has exactly one config: the
	// empty assignment.
	total := 1
	for _, name := range names {
		total *= len(alg.Parameters[name])
	}

	configs := make([]model.ExecutionConfig, 0, total)
	indices := make([]int, len(names))
	for configIndex := 0; configIndex < total; configIndex++ {
		params := make(model.Params, len(names))
		for i, name := range names {
			params[name] = alg.Parameters[name][indices[i]]
		}
		configs = append(configs, model.ExecutionConfig{
			AlgorithmID: alg.ID,
			ConfigIndex: configIndex,
			Parameters:  params,
		})

		// Advance the odometer, rightmost parameter fastest.
		for i := len(names) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(alg.Parameters[names[i]]) {
				break
			}
			indices[i] = 0
		}
	}
	return configs
}
