package vivainsights

import (
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/microsoft/vivainsights-go/internal/logger"
	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// defaultKeyMetrics are the standard Viva Insights metrics scanned when the
// caller does not pass WithMetrics. Metrics missing from the query are
// skipped.
var defaultKeyMetrics = []string{
	"Workweek_span",
	"Collaboration_hours",
	"After_hours_collaboration_hours",
	"Meetings",
	"Meeting_hours",
	"After_hours_meeting_hours",
	"Low_quality_meeting_hours",
	"Meeting_hours_with_manager_1_on_1",
	"Meeting_hours_with_manager",
	"Emails_sent",
	"Email_hours",
	"After_hours_email_hours",
	"Generated_workload_email_hours",
	"Total_focus_hours",
	"Internal_network_size",
	"Networking_outside_organization",
	"External_network_size",
	"Networking_outside_company",
}

// MetricGrid is a metrics-by-groups matrix of weekly means. The tabular
// form appends an Employee_Count row with the distinct person count per
// group.
type MetricGrid struct {
	HRVar     string
	DateRange string
	Metrics   []string
	Groups    []string
	Cells     [][]float64
	Counts    []int
}

// Header returns the metric column followed by one column per group.
func (g *MetricGrid) Header() []string {
	h := make([]string, 0, len(g.Groups)+1)
	h = append(h, "Metric")
	h = append(h, g.Groups...)
	return h
}

// Records returns one row per metric plus the Employee_Count row.
func (g *MetricGrid) Records() [][]string {
	recs := make([][]string, 0, len(g.Metrics)+1)
	for i, m := range g.Metrics {
		rec := make([]string, 0, len(g.Groups)+1)
		rec = append(rec, m)
		for _, v := range g.Cells[i] {
			rec = append(rec, formatFloat(v))
		}
		recs = append(recs, rec)
	}
	counts := make([]string, 0, len(g.Groups)+1)
	counts = append(counts, "Employee_Count")
	for _, n := range g.Counts {
		counts = append(counts, strconv.Itoa(n))
	}
	return append(recs, counts)
}

// KeyMetricsScan computes the weekly mean of a whole metric set per group
// and renders a heat grid with each metric rescaled to its own range
// across groups. Groups below the minimum size are dropped entirely; the
// Employee_Count row never joins the heat scaling.
func KeyMetricsScan(q *query.Query, hrvar string, opts ...Option) (*Output, error) {
	cfg := newConfig(opts)
	q, hrvar, err := withGrouping(q, hrvar)
	if err != nil {
		return nil, err
	}

	requested := cfg.metrics
	if len(requested) == 0 {
		requested = defaultKeyMetrics
	}
	metrics := make([]string, 0, len(requested))
	var missing []string
	for _, m := range requested {
		if c, cerr := q.Column(m); cerr == nil && c.Kind == query.KindNumber {
			metrics = append(metrics, m)
		} else {
			missing = append(missing, m)
		}
	}
	if len(metrics) == 0 {
		return nil, ErrNoMetrics
	}
	if len(missing) > 0 {
		logger.Debug("metrics not present in query", "hrvar", hrvar, "missing", missing)
	}

	groupCol, err := q.Strings(hrvar)
	if err != nil {
		return nil, err
	}
	ids, err := q.Strings(cfg.idColumn)
	if err != nil {
		return nil, err
	}
	type gp struct{ group, person string }
	seen := make(map[gp]struct{})
	people := make(map[string]int)
	for i, g := range groupCol {
		k := gp{g, ids[i]}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		people[g]++
	}

	groups := make([]string, 0, len(people))
	for g, n := range people {
		if n >= cfg.minGroup {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return nil, ErrAllSuppressed
	}
	sort.Strings(groups)

	counts := make([]int, len(groups))
	for i, g := range groups {
		counts[i] = people[g]
	}

	cells := make([][]float64, len(metrics))
	for i, metric := range metrics {
		means, merr := personMeans(q, hrvar, cfg.idColumn, metric)
		if merr != nil {
			return nil, merr
		}
		row := make([]float64, len(groups))
		for j, g := range groups {
			if vs := means[g]; len(vs) > 0 {
				row[j] = stat.Mean(vs, nil)
			} else {
				row[j] = math.NaN()
			}
		}
		cells[i] = row
	}

	title := cfg.title
	if title == "" {
		title = "Key Metrics"
	}
	subtitle := cfg.subtitle
	if subtitle == "" {
		subtitle = "Weekly average by " + hrvar
	}
	caption := ""
	if text, terr := q.DateRangeText(); terr == nil {
		caption = text
	}

	grid := &MetricGrid{
		HRVar:     hrvar,
		DateRange: caption,
		Metrics:   metrics,
		Groups:    groups,
		Cells:     cells,
		Counts:    counts,
	}
	plot := render.Titled(title, subtitle, caption,
		render.HeatGrid(metrics, groups, cells))
	png := func(path string) error {
		return render.SaveHeatPNG(path, title, subtitle, caption, metrics, groups, cells)
	}
	return newOutput(cfg.mode, grid, plot, png), nil
}
