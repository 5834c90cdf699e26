package vivainsights

import (
	"strings"
	"time"

	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// Grid is a groups-by-dates matrix of weekly metric means. Cells with no
// retained observation hold NaN and format as empty.
type Grid struct {
	HRVar     string
	Metric    string
	DateRange string
	Dates     []time.Time
	Groups    []string
	Cells     [][]float64
}

// Header returns the group column followed by one column per date.
func (g *Grid) Header() []string {
	h := make([]string, 0, len(g.Dates)+1)
	h = append(h, g.HRVar)
	for _, d := range g.Dates {
		h = append(h, d.Format("2006-01-02"))
	}
	return h
}

// Records returns one row per group.
func (g *Grid) Records() [][]string {
	recs := make([][]string, 0, len(g.Groups))
	for i, group := range g.Groups {
		rec := make([]string, 0, len(g.Dates)+1)
		rec = append(rec, group)
		for _, v := range g.Cells[i] {
			rec = append(rec, formatFloat(v))
		}
		recs = append(recs, rec)
	}
	return recs
}

// CreateTrend renders the weekly group means of a metric as a heat grid,
// shading each group's row by its own range so hotspots stand out per
// group rather than across the population.
func CreateTrend(q *query.Query, metric, hrvar string, opts ...Option) (*Output, error) {
	cfg := newConfig(opts)
	ts, err := timeSeriesCalc(q, metric, hrvar, cfg)
	if err != nil {
		return nil, err
	}

	grid := &Grid{
		HRVar:     ts.HRVar,
		Metric:    ts.Metric,
		DateRange: ts.DateRange,
		Dates:     ts.Dates,
		Groups:    ts.Groups,
		Cells:     ts.Matrix(),
	}

	title := cfg.title
	if title == "" {
		title = displayName(metric)
	}
	subtitle := cfg.subtitle
	if subtitle == "" {
		subtitle = "Hotspots by " + strings.ToLower(ts.HRVar)
	}

	short := make([]string, len(ts.Dates))
	iso := make([]string, len(ts.Dates))
	for i, d := range ts.Dates {
		short[i] = d.Format("Jan 02")
		iso[i] = d.Format("2006-01-02")
	}

	plot := render.Titled(title, subtitle, ts.DateRange,
		render.HeatGrid(ts.Groups, short, grid.Cells))
	png := func(path string) error {
		return render.SaveHeatPNG(path, title, subtitle, ts.DateRange, ts.Groups, iso, grid.Cells)
	}
	return newOutput(cfg.mode, grid, plot, png), nil
}
