package reduce

import (
	"encoding/json"
	"fmt"
)

// mcfPayload is the result document of the exact mixed-integer formulation
// family. Only the fields needed for plotting are declared; everything else
// in the solver's document is ignored.
type mcfPayload struct {
	Objective        *float64           `json:"objective"`
	ObjectiveGap     *float64           `json:"objective_gap"`
	ObjectiveBound   *float64           `json:"objective_bound"`
	EmbeddingRatio   *float64           `json:"embedding_ratio"`
	FeasibleRequests *float64           `json:"feasible_requests"`
	NodeLoads        map[string]float64 `json:"node_loads"`
	EdgeLoads        map[string]float64 `json:"edge_loads"`
}

// randroundPayload is the result document of the randomized-rounding
// heuristic family.
type randroundPayload struct {
	BestObjective   *float64 `json:"best_objective"`
	LPObjective     *float64 `json:"lp_objective"`
	RoundingSamples *float64 `json:"rounding_samples"`
	MaxNodeLoad     *float64 `json:"max_node_load"`
	MaxEdgeLoad     *float64 `json:"max_edge_load"`
}

// extractFunc turns one raw payload into the metric set for its family.
type extractFunc func(payload json.RawMessage) (map[string]float64, error)

// defaultExtractors maps algorithm IDs to their extraction rule.
func defaultExtractors() map[string]extractFunc {
	return map[string]extractFunc{
		"mip_mcf":   extractMCF,
		"randround": extractRandRound,
	}
}

// extractMCF reduces an exact-formulation payload. A payload without an
// objective is considered corrupted; optional fields default to zero and
// load metrics are emitted only when loads are present.
func extractMCF(payload json.RawMessage) (map[string]float64, error) {
	var p mcfPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decoding mip_mcf payload: %w", err)
	}
	if p.Objective == nil {
		return nil, fmt.Errorf("mip_mcf payload is missing required field \"objective\"")
	}

	metrics := map[string]float64{
		"objective":         *p.Objective,
		"objective_gap":     valueOr(p.ObjectiveGap, 0),
		"objective_bound":   valueOr(p.ObjectiveBound, *p.Objective),
		"embedding_ratio":   valueOr(p.EmbeddingRatio, 0),
		"feasible_requests": valueOr(p.FeasibleRequests, 0),
	}
	if len(p.NodeLoads) > 0 {
		avg, max := loadStats(p.NodeLoads)
		metrics["avg_node_load"] = avg
		metrics["max_node_load"] = max
	}
	if len(p.EdgeLoads) > 0 {
		avg, max := loadStats(p.EdgeLoads)
		metrics["avg_edge_load"] = avg
		metrics["max_edge_load"] = max
	}
	return metrics, nil
}

// extractRandRound reduces a randomized-rounding payload. The best rounding
// objective is required; it shares the "objective" metric name with the
// exact formulation so comparison plots line up.
func extractRandRound(payload json.RawMessage) (map[string]float64, error) {
	var p randroundPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("decoding randround payload: %w", err)
	}
	if p.BestObjective == nil {
		return nil, fmt.Errorf("randround payload is missing required field \"best_objective\"")
	}

	metrics := map[string]float64{
		"objective":        *p.BestObjective,
		"lp_objective":     valueOr(p.LPObjective, 0),
		"rounding_samples": valueOr(p.RoundingSamples, 0),
	}
	if p.MaxNodeLoad != nil {
		metrics["max_node_load"] = *p.MaxNodeLoad
	}
	if p.MaxEdgeLoad != nil {
		metrics["max_edge_load"] = *p.MaxEdgeLoad
	}
	return metrics, nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func loadStats(loads map[string]float64) (avg, max float64) {
	var sum float64
	first := true
	for _, load := range loads {
		sum += load
		if first || load > max {
			max = load
			first = false
		}
	}
	return sum / float64(len(loads)), max
}
