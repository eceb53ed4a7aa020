package config

import "time"

// Experiment is the unified representation of one experiment definition:
// where scenarios and results live, how the batch is executed, and how the
// results are filtered and plotted.
type Experiment struct {
	Name          string
	ScenariosPath string
	ArchivePath   string
	OutputDir     string

	Concurrency int
	TaskTimeout time.Duration

	Algorithms []AlgorithmGrid
	Plots      PlotSpec
}

// AlgorithmGrid declares one algorithm's solver command and its parameter
// grid. Each parameter maps to the list of candidate values; the full cross
// product of those lists is the algorithm's execution config set.
type AlgorithmGrid struct {
	ID         string
	Command    []string
	Parameters map[string][]any
}

// PlotSpec controls the reduction and plotting stages.
type PlotSpec struct {
	// FilterKeys are the generation-parameter names eligible for grouping,
	// in declaration order. MaxDepth bounds how many of them are combined
	// at once; group count grows combinatorially with it.
	FilterKeys []string
	MaxDepth   int

	// Metrics are the metric names to render, one figure per group and
	// metric. Empty means every metric found in the records.
	Metrics []string

	// Exclude drops records whose generation parameter takes one of the
	// listed values. ForbiddenScenarios drops whole scenarios by ID.
	Exclude            map[string][]any
	ForbiddenScenarios []string

	// Overwrite re-renders figures whose output file already exists.
	Overwrite bool
}
