package reduce

import (
	"fmt"

	"github.com/vneplab/evalgrid/internal/model"
	"github.com/vneplab/evalgrid/internal/scenario"
)

// ReductionError marks a record whose payload does not match the expected
// schema for its algorithm. It usually indicates a corrupted or mismatched
// archive, so it is surfaced to the caller instead of being skipped.
type ReductionError struct {
	Key model.TaskKey
	Err error
}

func (e *ReductionError) Error() string {
	return fmt.Sprintf("reducing %s: %v", e.Key, e.Err)
}

func (e *ReductionError) Unwrap() error {
	return e.Err
}

// Reducer turns result records into plot records, copying each scenario's
// generation parameters so downstream stages need no scenario store.
type Reducer struct {
	scenarios  *scenario.Store
	extractors map[string]extractFunc
}

// New creates a Reducer over the given scenario store with the built-in
// per-family extraction rules.
func New(scenarios *scenario.Store) *Reducer {
	return &Reducer{scenarios: scenarios, extractors: defaultExtractors()}
}

// Reduce builds the plot record for one result record. Records with a
// non-success status are retained with a nil metrics map for accounting.
// The raw payload never appears in the output.
func (r *Reducer) Reduce(rec model.ResultRecord) (model.PlotRecord, error) {
	scen, ok := r.scenarios.Get(rec.ScenarioID)
	if !ok {
		return model.PlotRecord{}, &ReductionError{
			Key: rec.TaskKey,
			Err: fmt.Errorf("scenario %q not present in the scenario store", rec.ScenarioID),
		}
	}

	plot := model.PlotRecord{
		TaskKey:              rec.TaskKey,
		GenerationParameters: scen.GenerationParameters,
		Status:               rec.Status,
	}
	if rec.Status != model.StatusSuccess {
		return plot, nil
	}

	extract, ok := r.extractors[rec.AlgorithmID]
	if !ok {
		return model.PlotRecord{}, &ReductionError{
			Key: rec.TaskKey,
			Err: fmt.Errorf("no extraction rule for algorithm %q", rec.AlgorithmID),
		}
	}
	metrics, err := extract(rec.Payload)
	if err != nil {
		return model.PlotRecord{}, &ReductionError{Key: rec.TaskKey, Err: err}
	}
	metrics["runtime_seconds"] = rec.RuntimeSeconds
	plot.Metrics = metrics
	return plot, nil
}

// ReduceAll reduces every record. When strict is set the first reduction
// failure aborts; otherwise failures are collected and returned alongside
// the successfully reduced records.
func (r *Reducer) ReduceAll(records []model.ResultRecord, strict bool) ([]model.PlotRecord, []error, error) {
	plots := make([]model.PlotRecord, 0, len(records))
	var failures []error
	for _, rec := range records {
		plot, err := r.Reduce(rec)
		if err != nil {
			if strict {
				return nil, nil, err
			}
			failures = append(failures, err)
			continue
		}
		plots = append(plots, plot)
	}
	return plots, failures, nil
}
