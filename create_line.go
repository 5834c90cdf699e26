package vivainsights

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// chartHeight is the row count of terminal line charts.
const chartHeight = 12

// TimePoint is one retained (group, date) cell of a TimeSeries.
type TimePoint struct {
	Group string
	Date  time.Time
	Value float64
	N     int
}

// TimeSeries is the per-date grouped view of a single metric. Points are
// ordered by group, then date; Dates and Groups list the retained axis
// values in ascending order.
type TimeSeries struct {
	HRVar      string
	Metric     string
	DateColumn string
	DateRange  string
	Dates      []time.Time
	Groups     []string
	Points     []TimePoint
}

// Header returns the column names of the tabular form.
func (ts *TimeSeries) Header() []string {
	return []string{ts.HRVar, ts.DateColumn, ts.Metric, "n"}
}

// Records returns the rows of the tabular form.
func (ts *TimeSeries) Records() [][]string {
	recs := make([][]string, 0, len(ts.Points))
	for _, p := range ts.Points {
		recs = append(recs, []string{
			p.Group, p.Date.Format("2006-01-02"), formatFloat(p.Value), strconv.Itoa(p.N),
		})
	}
	return recs
}

// Matrix returns one row per group over Dates. Cells with no retained
// observation hold NaN.
func (ts *TimeSeries) Matrix() [][]float64 {
	dateIdx := make(map[time.Time]int, len(ts.Dates))
	for i, d := range ts.Dates {
		dateIdx[d] = i
	}
	groupIdx := make(map[string]int, len(ts.Groups))
	for i, g := range ts.Groups {
		groupIdx[g] = i
	}

	m := make([][]float64, len(ts.Groups))
	for i := range m {
		row := make([]float64, len(ts.Dates))
		for j := range row {
			row[j] = math.NaN()
		}
		m[i] = row
	}
	for _, p := range ts.Points {
		m[groupIdx[p.Group]][dateIdx[p.Date]] = p.Value
	}
	return m
}

// CreateLine plots the weekly group means of a metric as one line per
// group. Group-weeks with fewer distinct persons than the minimum group
// size are dropped.
func CreateLine(q *query.Query, metric, hrvar string, opts ...Option) (*Output, error) {
	cfg := newConfig(opts)
	ts, err := timeSeriesCalc(q, metric, hrvar, cfg)
	if err != nil {
		return nil, err
	}

	title := cfg.title
	if title == "" {
		title = displayName(metric)
	}
	subtitle := cfg.subtitle
	if subtitle == "" {
		subtitle = "By " + ts.HRVar
	}

	matrix := ts.Matrix()
	var body string
	if len(ts.Groups) == 1 {
		body = render.LineChart(matrix[0], cfg.width-10, chartHeight, "")
	} else {
		body = render.MultiLineChart(ts.Groups, matrix, cfg.width-10, chartHeight, "")
	}

	series := make([]render.Series, len(ts.Groups))
	for i, g := range ts.Groups {
		series[i] = render.Series{Name: g, Values: matrix[i]}
	}
	plot := render.Titled(title, subtitle, ts.DateRange, body)
	png := func(path string) error {
		return render.SaveLinePNG(path, title, subtitle, ts.DateRange, ts.Dates, series)
	}
	return newOutput(cfg.mode, ts, plot, png), nil
}

// timeSeriesCalc collapses metric to person-level means per (group, date),
// averages them and keeps the (group, date) cells whose distinct person
// count meets the minimum group size.
func timeSeriesCalc(q *query.Query, metric, hrvar string, cfg config) (*TimeSeries, error) {
	q, hrvar, err := withGrouping(q, hrvar)
	if err != nil {
		return nil, err
	}
	dateCol, err := resolveDateColumn(q, cfg)
	if err != nil {
		return nil, err
	}
	dates, err := q.Times(dateCol)
	if err != nil {
		return nil, err
	}
	groups, err := q.Strings(hrvar)
	if err != nil {
		return nil, err
	}
	ids, err := q.Strings(cfg.idColumn)
	if err != nil {
		return nil, err
	}
	values, err := q.Numbers(metric)
	if err != nil {
		return nil, err
	}

	type cell struct {
		group string
		date  time.Time
	}
	type pkey struct {
		cell
		person string
	}
	sums := make(map[pkey]float64)
	counts := make(map[pkey]int)
	for i, v := range values {
		if math.IsNaN(v) || dates[i].IsZero() {
			continue
		}
		k := pkey{cell{groups[i], dates[i]}, ids[i]}
		sums[k] += v
		counts[k]++
	}

	cellSums := make(map[cell]float64)
	cellN := make(map[cell]int)
	for k, sum := range sums {
		cellSums[k.cell] += sum / float64(counts[k])
		cellN[k.cell]++
	}

	var points []TimePoint
	dateSet := make(map[time.Time]struct{})
	groupSet := make(map[string]struct{})
	for c, sum := range cellSums {
		n := cellN[c]
		if n < cfg.minGroup {
			continue
		}
		points = append(points, TimePoint{Group: c.group, Date: c.date, Value: sum / float64(n), N: n})
		dateSet[c.date] = struct{}{}
		groupSet[c.group] = struct{}{}
	}
	if len(points) == 0 {
		return nil, ErrAllSuppressed
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Group != points[j].Group {
			return points[i].Group < points[j].Group
		}
		return points[i].Date.Before(points[j].Date)
	})

	axisDates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		axisDates = append(axisDates, d)
	}
	sort.Slice(axisDates, func(i, j int) bool { return axisDates[i].Before(axisDates[j]) })
	axisGroups := make([]string, 0, len(groupSet))
	for g := range groupSet {
		axisGroups = append(axisGroups, g)
	}
	sort.Strings(axisGroups)

	ts := &TimeSeries{
		HRVar:      hrvar,
		Metric:     metric,
		DateColumn: dateCol,
		Dates:      axisDates,
		Groups:     axisGroups,
		Points:     points,
	}
	if text, terr := q.DateRangeText(); terr == nil {
		ts.DateRange = text
	}
	return ts, nil
}

// resolveDateColumn picks the date column: an explicit override must exist,
// otherwise the query's detected date column is used.
func resolveDateColumn(q *query.Query, cfg config) (string, error) {
	if cfg.dateColumn != "" {
		if !q.HasColumn(cfg.dateColumn) {
			return "", fmt.Errorf("%w: %q", query.ErrColumnNotFound, cfg.dateColumn)
		}
		return cfg.dateColumn, nil
	}
	return q.DateColumn()
}
