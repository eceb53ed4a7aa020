package hcl

import "github.com/zclconf/go-cty/cty"

// experimentFile is the top-level structure of an experiment file.
type experimentFile struct {
	Experiments []*experimentBlock `hcl:"experiment,block"`
}

// experimentBlock is one `experiment "name" { ... }` block.
type experimentBlock struct {
	Name        string `hcl:"name,label"`
	Scenarios   string `hcl:"scenarios"`
	Archive     string `hcl:"archive"`
	OutputDir   string `hcl:"output_dir"`
	Concurrency int    `hcl:"concurrency,optional"`
	TaskTimeout string `hcl:"task_timeout,optional"`

	Algorithms []*algorithmBlock `hcl:"algorithm,block"`
	Plots      *plotsBlock       `hcl:"plots,block"`
}

// algorithmBlock declares one solver and its parameter grid. Parameters is
// decoded as a raw cty object of lists because the candidate values are
// heterogeneous scalars.
type algorithmBlock struct {
	ID         string    `hcl:"id,label"`
	Command    []string  `hcl:"command"`
	Parameters cty.Value `hcl:"parameters,optional"`
}

// plotsBlock configures the filter and plot stages.
type plotsBlock struct {
	FilterKeys         []string  `hcl:"filter_keys"`
	MaxDepth           int       `hcl:"max_depth"`
	Metrics            []string  `hcl:"metrics,optional"`
	Exclude            cty.Value `hcl:"exclude,optional"`
	ForbiddenScenarios []string  `hcl:"forbidden_scenarios,optional"`
	Overwrite          bool      `hcl:"overwrite,optional"`
}
