package vivainsights

import (
	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// CreateBar summarises a metric by an organizational attribute and renders
// the group means as a horizontal bar chart. WithPercent scales values by
// 100 and annotates them with a percent sign.
func CreateBar(q *query.Query, metric, hrvar string, opts ...Option) (*Output, error) {
	cfg := newConfig(opts)
	s, err := Summarize(q, metric, hrvar, opts...)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(s.Rows))
	values := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		labels[i] = r.Group
		values[i] = r.Value
	}
	format := "%.0f"
	if cfg.percent {
		format = "%.0f%%"
		for i := range values {
			values[i] *= 100
		}
	}

	title := cfg.title
	if title == "" {
		title = displayName(metric)
	}
	subtitle := cfg.subtitle
	if subtitle == "" {
		subtitle = "Weekly average by " + s.HRVar
	}

	plot := render.Titled(title, subtitle, s.DateRange,
		render.BarChart(labels, values, cfg.width, format))
	png := func(path string) error {
		return render.SaveBarPNG(path, title, subtitle, s.DateRange, labels, values)
	}
	return newOutput(cfg.mode, s, plot, png), nil
}
