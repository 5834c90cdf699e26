package vivainsights

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// defaultRankHRVars are the attributes ranked when the caller passes none.
// Attributes missing from the query are skipped.
var defaultRankHRVars = []string{"Organization", "FunctionType"}

// RankRow is one (attribute, group) pair in a Ranking. Stats is nil unless
// the ranking was built with WithStats.
type RankRow struct {
	HRVar string
	Group string
	Value float64
	N     int
	Stats *Stats
}

// Ranking concatenates the group summaries of one metric across several
// organizational attributes, ordered by value descending.
type Ranking struct {
	Metric    string
	DateRange string
	Rows      []RankRow
}

// Header returns the column names of the tabular form.
func (r *Ranking) Header() []string {
	h := []string{"hrvar", "attributes", r.Metric, "n"}
	if r.hasStats() {
		h = append(h, "sd", "median", "min", "max")
	}
	return h
}

// Records returns the rows of the tabular form.
func (r *Ranking) Records() [][]string {
	recs := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := []string{row.HRVar, row.Group, formatFloat(row.Value), strconv.Itoa(row.N)}
		if r.hasStats() {
			rec = append(rec, formatFloat(row.Stats.SD), formatFloat(row.Stats.Median),
				formatFloat(row.Stats.Min), formatFloat(row.Stats.Max))
		}
		recs = append(recs, rec)
	}
	return recs
}

func (r *Ranking) hasStats() bool {
	return len(r.Rows) > 0 && r.Rows[0].Stats != nil
}

// CreateRank summarises a metric across several organizational attributes
// at once and ranks every retained group by its mean. The plot shows each
// attribute's spread as a min-to-max strip. Attributes whose groups are all
// suppressed are left out; the call fails only when nothing survives.
func CreateRank(q *query.Query, metric string, hrvars []string, opts ...Option) (*Output, error) {
	cfg := newConfig(opts)
	if len(hrvars) == 0 {
		for _, name := range defaultRankHRVars {
			if q.HasColumn(name) {
				hrvars = append(hrvars, name)
			}
		}
		if len(hrvars) == 0 {
			return nil, fmt.Errorf("%w: no ranking attributes present", query.ErrColumnNotFound)
		}
	}

	var rows []RankRow
	for _, hrvar := range hrvars {
		s, err := Summarize(q, metric, hrvar, opts...)
		if errors.Is(err, ErrAllSuppressed) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, sr := range s.Rows {
			rows = append(rows, RankRow{
				HRVar: s.HRVar, Group: sr.Group, Value: sr.Value, N: sr.N, Stats: sr.Stats,
			})
		}
	}
	if len(rows) == 0 {
		return nil, ErrAllSuppressed
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		if rows[i].HRVar != rows[j].HRVar {
			return rows[i].HRVar < rows[j].HRVar
		}
		return rows[i].Group < rows[j].Group
	})

	var (
		labels []string
		lows   []float64
		highs  []float64
	)
	for _, hrvar := range hrvars {
		low, high := math.NaN(), math.NaN()
		for _, r := range rows {
			if r.HRVar != hrvar && !(hrvar == "" && r.HRVar == query.TotalsColumn) {
				continue
			}
			if math.IsNaN(low) || r.Value < low {
				low = r.Value
			}
			if math.IsNaN(high) || r.Value > high {
				high = r.Value
			}
		}
		if math.IsNaN(low) {
			continue
		}
		name := hrvar
		if name == "" {
			name = query.TotalsColumn
		}
		labels = append(labels, name)
		lows = append(lows, low)
		highs = append(highs, high)
	}

	title := cfg.title
	if title == "" {
		title = displayName(metric)
	}
	subtitle := cfg.subtitle
	if subtitle == "" {
		subtitle = "By organizational attributes"
	}
	caption := ""
	if text, terr := q.DateRangeText(); terr == nil {
		caption = text
	}

	ranking := &Ranking{Metric: metric, DateRange: caption, Rows: rows}
	plot := render.Titled(title, subtitle, caption,
		render.RangeStrip(labels, lows, highs, cfg.width))

	barLabels := make([]string, len(rows))
	barValues := make([]float64, len(rows))
	for i, r := range rows {
		barLabels[i] = fmt.Sprintf("%s (%s)", r.Group, r.HRVar)
		barValues[i] = r.Value
	}
	png := func(path string) error {
		return render.SaveBarPNG(path, title, subtitle, caption, barLabels, barValues)
	}
	return newOutput(cfg.mode, ranking, plot, png), nil
}
