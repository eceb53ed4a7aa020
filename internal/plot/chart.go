package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vneplab/evalgrid/internal/stats"
)

// renderBarChart draws one bar per series (mean of the metric) and writes
// the figure as a PNG. Formatting of numeric values happens here and only
// here; reduction and aggregation carry full-precision floats.
func renderBarChart(path, title, metric string, summaries map[stats.SeriesKey]stats.Summary) error {
	keys := stats.SortedKeys(summaries)

	values := make(plotter.Values, len(keys))
	labels := make([]string, len(keys))
	for i, key := range keys {
		values[i] = summaries[key].Mean
		labels[i] = fmt.Sprintf("%s\n(n=%d)", key, summaries[key].Count)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = metric
	p.X.Label.Text = "algorithm / config"

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving figure %s: %w", path, err)
	}
	return nil
}
