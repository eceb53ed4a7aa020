// Package stats aggregates group members into per-series metric summaries.
// A series is one (algorithm, execution config) pair; a figure compares the
// series of one filter group.
package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/vneplab/evalgrid/internal/model"
)

// SeriesKey identifies one plotted series within a group.
type SeriesKey struct {
	AlgorithmID string
	ConfigIndex int
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%s/%d", k.AlgorithmID, k.ConfigIndex)
}

// Summary is the aggregated view of one metric for one series.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Validity returns the observation filter for a metric, mirroring the
// original evaluation's metric filters. Values rejected by the filter are
// dropped before aggregation. A nil return accepts everything.
func Validity(metric string) func(float64) bool {
	switch metric {
	case "objective_gap":
		// Tiny negative gaps are solver noise; anything clearly negative
		// is an artifact and excluded.
		return func(v float64) bool { return v >= -1e-5 }
	case "embedding_ratio":
		return func(v float64) bool { return v >= 0 }
	default:
		return nil
	}
}

// Summarize aggregates one metric over the given records, split by series.
// Records without the metric (including non-success records, whose metric
// map is nil) contribute nothing. Series with zero valid observations are
// omitted.
func Summarize(records []model.PlotRecord, metric string, valid func(float64) bool) map[SeriesKey]Summary {
	observations := make(map[SeriesKey][]float64)
	for _, rec := range records {
		value, ok := rec.Metrics[metric]
		if !ok {
			continue
		}
		if valid != nil && !valid(value) {
			continue
		}
		key := SeriesKey{AlgorithmID: rec.AlgorithmID, ConfigIndex: rec.ConfigIndex}
		observations[key] = append(observations[key], value)
	}

	summaries := make(map[SeriesKey]Summary, len(observations))
	for key, values := range observations {
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		summaries[key] = Summary{
			Count: len(values),
			Mean:  mean,
			Std:   std,
			Min:   floats.Min(values),
			Max:   floats.Max(values),
		}
	}
	return summaries
}

// SortedKeys returns the series keys in deterministic order: algorithm ID,
// then config index.
func SortedKeys(summaries map[SeriesKey]Summary) []SeriesKey {
	keys := make([]SeriesKey, 0, len(summaries))
	for key := range summaries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].AlgorithmID != keys[j].AlgorithmID {
			return keys[i].AlgorithmID < keys[j].AlgorithmID
		}
		return keys[i].ConfigIndex < keys[j].ConfigIndex
	})
	return keys
}
