package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vneplab/evalgrid/internal/archive"
	"github.com/vneplab/evalgrid/internal/ctxlog"
	"github.com/vneplab/evalgrid/internal/filter"
	"github.com/vneplab/evalgrid/internal/grid"
	"github.com/vneplab/evalgrid/internal/model"
	"github.com/vneplab/evalgrid/internal/plot"
	"github.com/vneplab/evalgrid/internal/reduce"
	"github.com/vneplab/evalgrid/internal/runner"
	"github.com/vneplab/evalgrid/internal/scenario"
)

// plotDataFile is the reduced plot-record document written by the reduce
// stage and consumed by the plot stage.
const plotDataFile = "plotdata.json"

// Run executes the requested pipeline stage(s).
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	switch cmd := a.command; cmd {
	case "run":
		return a.runBatch(ctx)
	case "reduce":
		return a.reduceArchive(ctx)
	case "plot":
		return a.renderPlots(ctx)
	case "all":
		if err := a.runBatch(ctx); err != nil {
			return err
		}
		if err := a.reduceArchive(ctx); err != nil {
			return err
		}
		return a.renderPlots(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// runBatch executes the scenario × config cross product and reports the
// per-status outcome counts.
func (a *App) runBatch(ctx context.Context) error {
	store, err := scenario.Load(a.experiment.ScenariosPath)
	if err != nil {
		return err
	}
	configs := grid.Expand(a.experiment.Algorithms)
	a.logger.Info("Parameter grids expanded.",
		"scenarios", store.Len(),
		"configs", len(configs),
		"tasks", store.Len()*len(configs),
	)

	arc, err := archive.Open(a.experiment.ArchivePath)
	if err != nil {
		return err
	}
	defer arc.Close()

	concurrency := a.experiment.Concurrency
	if a.workers > 0 {
		concurrency = a.workers
	}
	batch, err := runner.New(arc, a.registry, runner.Options{
		Concurrency: concurrency,
		TaskTimeout: a.experiment.TaskTimeout,
	})
	if err != nil {
		return err
	}

	outcome, err := batch.Run(ctx, store.All(), configs)
	fmt.Fprintf(a.outW, "batch %s: %d succeeded, %d timed out, %d errored, %d skipped (%d total)\n",
		a.experiment.Name, outcome.Succeeded, outcome.TimedOut, outcome.Errored, outcome.Skipped, outcome.Total())
	return err
}

// reduceArchive reduces every archived record and writes the plot-record
// document into the output directory.
func (a *App) reduceArchive(ctx context.Context) error {
	arc, err := archive.Open(a.experiment.ArchivePath)
	if err != nil {
		return err
	}
	defer arc.Close()

	records, err := arc.All(ctx)
	if err != nil {
		return err
	}
	store, err := scenario.Load(a.experiment.ScenariosPath)
	if err != nil {
		return err
	}

	reducer := reduce.New(store)
	plots, failures, err := reducer.ReduceAll(records, a.strict)
	if err != nil {
		return err
	}
	for _, failure := range failures {
		a.logger.Warn("Record could not be reduced.", "error", failure)
	}

	if err := os.MkdirAll(a.experiment.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(a.experiment.OutputDir, plotDataFile)
	data, err := json.MarshalIndent(plots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plot records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing plot records: %w", err)
	}

	fmt.Fprintf(a.outW, "reduce %s: %d records reduced, %d failed, written to %s\n",
		a.experiment.Name, len(plots), len(failures), path)
	return nil
}

// renderPlots groups the reduced records and renders one figure per group
// and metric.
func (a *App) renderPlots(ctx context.Context) error {
	path := filepath.Join(a.experiment.OutputDir, plotDataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading plot records (did the reduce stage run?): %w", err)
	}
	var records []model.PlotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decoding plot records %q: %w", path, err)
	}

	spec := a.experiment.Plots
	records = filter.Prune(records, spec.Exclude, spec.ForbiddenScenarios)

	// A candidate key no record carries is not fatal: its subsets just
	// produce no groups. Report it, since it usually means a typo.
	for _, key := range spec.FilterKeys {
		found := false
		for _, rec := range records {
			if _, ok := rec.GenerationParameters[key]; ok {
				found = true
				break
			}
		}
		if !found {
			a.logger.Warn("Filter key absent from all records.", "key", key)
		}
	}

	groups := filter.Groups(records, spec.FilterKeys, spec.MaxDepth)
	a.logger.Info("Filter groups enumerated.",
		"records", len(records),
		"groups", len(groups),
		"max_depth", spec.MaxDepth,
	)

	pipeline := &plot.Pipeline{
		OutputDir: a.experiment.OutputDir,
		Metrics:   spec.Metrics,
		Overwrite: spec.Overwrite,
	}
	rendered, failures, err := pipeline.Render(ctx, groups)
	for _, failure := range failures {
		a.logger.Warn("Figure could not be rendered.", "error", failure)
	}
	fmt.Fprintf(a.outW, "plot %s: %d figures rendered, %d failed, output in %s\n",
		a.experiment.Name, len(rendered), len(failures), a.experiment.OutputDir)
	return err
}
