package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vneplab/evalgrid/internal/config"
	"github.com/vneplab/evalgrid/internal/ctxlog"
	"github.com/vneplab/evalgrid/internal/solvers"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// Command is the pipeline stage to execute: run, reduce, plot or all.
	Command        string
	ExperimentPath string

	LogFormat string
	LogLevel  string

	// Workers overrides the experiment's concurrency when positive.
	Workers int
	// Strict aborts reduction on the first schema mismatch instead of
	// collecting and reporting failures.
	Strict bool
}

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	experiment *config.Experiment
	registry   *solvers.Registry
	command    string
	strict     bool
	workers    int
}

// NewApp loads the experiment definition through the provided loader and
// wires a solver adapter per algorithm. A failure to load the definition is
// a fatal startup error and panics; the entrypoint recovers and reports it.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	experiment, err := loader.Load(ctx, appConfig.ExperimentPath)
	if err != nil {
		panic(fmt.Errorf("failed to load experiment definition: %w", err))
	}
	logger.Debug("Experiment definition loaded.", "name", experiment.Name)

	registry := solvers.NewRegistry()
	for _, alg := range experiment.Algorithms {
		adapter, err := solvers.NewExecAdapter(alg.Command)
		if err != nil {
			panic(fmt.Errorf("algorithm %q: %w", alg.ID, err))
		}
		registry.Register(alg.ID, adapter)
	}
	logger.Debug("Solver adapters registered.", "count", len(experiment.Algorithms))

	return &App{
		outW:       outW,
		logger:     logger,
		experiment: experiment,
		registry:   registry,
		command:    appConfig.Command,
		strict:     appConfig.Strict,
		workers:    appConfig.Workers,
	}
}

// Experiment returns the loaded experiment definition. Primarily for
// testing.
func (a *App) Experiment() *config.Experiment {
	return a.experiment
}
