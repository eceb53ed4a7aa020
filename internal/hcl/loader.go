package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vneplab/evalgrid/internal/config"
	"github.com/vneplab/evalgrid/internal/ctxlog"
	"github.com/vneplab/evalgrid/internal/fsutil"
)

const (
	defaultConcurrency = 4
	defaultTaskTimeout = time.Hour
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the experiment definition at path. A directory is searched
// recursively for .hcl files; exactly one experiment block must be defined
// across all of them. Relative paths inside the definition are resolved
// against the directory of the file that declares them.
func (l *Loader) Load(ctx context.Context, path string) (*config.Experiment, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("experiment path %q: %w", path, err)
	}

	filePaths := []string{path}
	if info.IsDir() {
		filePaths, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("searching %q for experiment files: %w", path, err)
		}
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no .hcl experiment files found under %q", path)
	}
	logger.Debug("Parsing experiment files.", "count", len(filePaths))

	parser := hclparse.NewParser()
	var experiment *config.Experiment
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var parsed experimentFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
		}

		for _, block := range parsed.Experiments {
			if experiment != nil {
				return nil, fmt.Errorf("multiple experiment blocks found; %s defines a second one", filePath)
			}
			experiment, err = l.translate(block, filepath.Dir(filePath))
			if err != nil {
				return nil, fmt.Errorf("experiment %q in %s: %w", block.Name, filePath, err)
			}
		}
	}

	if experiment == nil {
		return nil, fmt.Errorf("no experiment block found under %q", path)
	}
	logger.Debug("Experiment definition loaded.",
		"name", experiment.Name,
		"algorithms", len(experiment.Algorithms),
	)
	return experiment, nil
}

// translate converts a decoded experiment block into the agnostic model and
// applies defaults and validation.
func (l *Loader) translate(block *experimentBlock, baseDir string) (*config.Experiment, error) {
	exp := &config.Experiment{
		Name:          block.Name,
		ScenariosPath: resolvePath(baseDir, block.Scenarios),
		ArchivePath:   resolvePath(baseDir, block.Archive),
		OutputDir:     resolvePath(baseDir, block.OutputDir),
		Concurrency:   block.Concurrency,
		TaskTimeout:   defaultTaskTimeout,
	}

	if exp.Concurrency == 0 {
		exp.Concurrency = defaultConcurrency
	}
	if exp.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be at least 1, got %d", block.Concurrency)
	}
	if block.TaskTimeout != "" {
		timeout, err := time.ParseDuration(block.TaskTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid task_timeout %q: %w", block.TaskTimeout, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("task_timeout must be positive, got %q", block.TaskTimeout)
		}
		exp.TaskTimeout = timeout
	}

	if len(block.Algorithms) == 0 {
		return nil, fmt.Errorf("at least one algorithm block is required")
	}
	seen := make(map[string]bool, len(block.Algorithms))
	for _, alg := range block.Algorithms {
		if seen[alg.ID] {
			return nil, fmt.Errorf("duplicate algorithm %q", alg.ID)
		}
		seen[alg.ID] = true
		if len(alg.Command) == 0 {
			return nil, fmt.Errorf("algorithm %q: command must not be empty", alg.ID)
		}
		params, err := scalarListsFromCty(alg.Parameters)
		if err != nil {
			return nil, fmt.Errorf("algorithm %q parameters: %w", alg.ID, err)
		}
		exp.Algorithms = append(exp.Algorithms, config.AlgorithmGrid{
			ID:         alg.ID,
			Command:    alg.Command,
			Parameters: params,
		})
	}

	if block.Plots != nil {
		exclude, err := scalarListsFromCty(block.Plots.Exclude)
		if err != nil {
			return nil, fmt.Errorf("plots exclude: %w", err)
		}
		if block.Plots.MaxDepth < 0 {
			return nil, fmt.Errorf("plots max_depth must not be negative, got %d", block.Plots.MaxDepth)
		}
		exp.Plots = config.PlotSpec{
			FilterKeys:         block.Plots.FilterKeys,
			MaxDepth:           block.Plots.MaxDepth,
			Metrics:            block.Plots.Metrics,
			Exclude:            exclude,
			ForbiddenScenarios: block.Plots.ForbiddenScenarios,
			Overwrite:          block.Plots.Overwrite,
		}
	}

	return exp, nil
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
