// Package plot renders one figure per filter group and metric. Rendering
// is a side-effecting leaf: the pipeline holds no state across invocations
// besides the output directory. Render failures are isolated per figure and
// never stop sibling figures.
package plot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vneplab/evalgrid/internal/ctxlog"
	"github.com/vneplab/evalgrid/internal/filter"
	"github.com/vneplab/evalgrid/internal/stats"
)

const defaultRenderConcurrency = 4

// RenderError is one failed figure.
type RenderError struct {
	Group  string
	Metric string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s for group [%s]: %v", e.Metric, e.Group, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Pipeline renders figures into OutputDir.
type Pipeline struct {
	OutputDir string
	// Metrics to render; empty means every metric present in the records.
	Metrics []string
	// Overwrite re-renders figures whose file already exists.
	Overwrite bool
	// RenderConcurrency bounds parallel figure rendering. Zero means the
	// default.
	RenderConcurrency int
}

// Render draws one figure per (group, metric) combination and returns the
// written file paths plus the per-figure failures. Groups with no valid
// observations for a metric are skipped and logged, not failed. The
// returned error is systemic (canceled context, unusable output directory);
// per-figure failures never abort siblings.
func (p *Pipeline) Render(ctx context.Context, groups []filter.Group) ([]string, []error, error) {
	logger := ctxlog.FromContext(ctx)

	metrics := p.Metrics
	if len(metrics) == 0 {
		metrics = collectMetrics(groups)
	}
	if len(metrics) == 0 {
		logger.Warn("No metrics found in any group, nothing to render.")
		return nil, nil, nil
	}

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating output directory: %w", err)
	}

	concurrency := p.RenderConcurrency
	if concurrency <= 0 {
		concurrency = defaultRenderConcurrency
	}

	var (
		mu       sync.Mutex
		rendered []string
		failures []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, group := range groups {
		for _, metric := range metrics {
			group, metric := group, metric
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				summaries := stats.Summarize(group.Members, metric, stats.Validity(metric))
				if len(summaries) == 0 {
					logger.Debug("No observations for figure, skipping.",
						"metric", metric, "group", group.Label())
					return nil
				}

				path := figurePath(p.OutputDir, metric, group)
				if !p.Overwrite {
					if _, err := os.Stat(path); err == nil {
						logger.Debug("Figure already exists, skipping.", "path", path)
						return nil
					}
				}
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					mu.Lock()
					failures = append(failures, &RenderError{Group: group.Label(), Metric: metric, Err: err})
					mu.Unlock()
					return nil
				}

				title := metric
				if len(group.Keys) > 0 {
					title = metric + " | " + group.Label()
				}
				if err := renderBarChart(path, title, metric, summaries); err != nil {
					mu.Lock()
					failures = append(failures, &RenderError{Group: group.Label(), Metric: metric, Err: err})
					mu.Unlock()
					return nil
				}

				mu.Lock()
				rendered = append(rendered, path)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return rendered, failures, fmt.Errorf("rendering aborted: %w", err)
	}

	sort.Strings(rendered)
	logger.Info("Rendering finished.", "figures", len(rendered), "failures", len(failures))
	return rendered, failures, nil
}

// collectMetrics gathers every metric name present in any record, sorted.
func collectMetrics(groups []filter.Group) []string {
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, rec := range group.Members {
			for metric := range rec.Metrics {
				seen[metric] = true
			}
		}
	}
	metrics := make([]string, 0, len(seen))
	for metric := range seen {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	return metrics
}
