package vivainsights

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/microsoft/vivainsights-go/internal/logger"
	"github.com/microsoft/vivainsights-go/query"
)

// Stats holds the spread of person-level means within one group.
type Stats struct {
	SD     float64
	Median float64
	Min    float64
	Max    float64
}

// SummaryRow is one retained group in a Summary. Stats is nil unless the
// summary was built with WithStats.
type SummaryRow struct {
	Group string
	Value float64
	N     int
	Stats *Stats
}

// Summary is the grouped view of a single metric: one row per retained
// group, carrying the mean of person-level means and the distinct person
// count.
type Summary struct {
	HRVar     string
	Metric    string
	DateRange string
	Rows      []SummaryRow
}

// Header returns the column names of the tabular form.
func (s *Summary) Header() []string {
	h := []string{s.HRVar, s.Metric, "n"}
	if s.hasStats() {
		h = append(h, "sd", "median", "min", "max")
	}
	return h
}

// Records returns the rows of the tabular form.
func (s *Summary) Records() [][]string {
	recs := make([][]string, 0, len(s.Rows))
	for _, r := range s.Rows {
		rec := []string{r.Group, formatFloat(r.Value), strconv.Itoa(r.N)}
		if s.hasStats() {
			rec = append(rec, formatFloat(r.Stats.SD), formatFloat(r.Stats.Median),
				formatFloat(r.Stats.Min), formatFloat(r.Stats.Max))
		}
		recs = append(recs, rec)
	}
	return recs
}

func (s *Summary) hasStats() bool {
	return len(s.Rows) > 0 && s.Rows[0].Stats != nil
}

// Summarize collapses metric to a mean per (person, group) pair, averages
// those means within each group and drops groups with fewer distinct
// persons than the minimum group size. An empty hrvar treats the whole
// population as a single group named Total.
func Summarize(q *query.Query, metric, hrvar string, opts ...Option) (*Summary, error) {
	cfg := newConfig(opts)
	q, hrvar, err := withGrouping(q, hrvar)
	if err != nil {
		return nil, err
	}
	means, err := personMeans(q, hrvar, cfg.idColumn, metric)
	if err != nil {
		return nil, err
	}

	rows := make([]SummaryRow, 0, len(means))
	for group, people := range means {
		if len(people) < cfg.minGroup {
			continue
		}
		row := SummaryRow{Group: group, Value: stat.Mean(people, nil), N: len(people)}
		if cfg.stats {
			row.Stats = &Stats{
				SD:     stat.StdDev(people, nil),
				Median: median(people),
				Min:    lo.Min(people),
				Max:    lo.Max(people),
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrAllSuppressed
	}
	if n := len(means) - len(rows); n > 0 {
		logger.Debug("groups suppressed", "metric", metric, "hrvar", hrvar,
			"suppressed", n, "kept", len(rows))
	}
	sortSummary(rows, cfg.mode)

	s := &Summary{HRVar: hrvar, Metric: metric, Rows: rows}
	if text, terr := q.DateRangeText(); terr == nil {
		s.DateRange = text
	}
	return s, nil
}

// withGrouping resolves an empty hrvar to the constant totals column so the
// ungrouped path can reuse the grouped one.
func withGrouping(q *query.Query, hrvar string) (*query.Query, string, error) {
	if hrvar != "" {
		if !q.HasColumn(hrvar) {
			return nil, "", fmt.Errorf("%w: %q", query.ErrColumnNotFound, hrvar)
		}
		return q, hrvar, nil
	}
	if q.HasColumn(query.TotalsColumn) {
		return q, query.TotalsColumn, nil
	}
	qt, err := q.WithTotals()
	if err != nil {
		return nil, "", err
	}
	return qt, query.TotalsColumn, nil
}

// personMeans returns, per group, the mean of metric for each person in the
// group. NaN cells are skipped; a person with no valid cells in a group is
// absent from that group's slice.
func personMeans(q *query.Query, groupCol, idCol, metric string) (map[string][]float64, error) {
	groups, err := q.Strings(groupCol)
	if err != nil {
		return nil, err
	}
	ids, err := q.Strings(idCol)
	if err != nil {
		return nil, err
	}
	values, err := q.Numbers(metric)
	if err != nil {
		return nil, err
	}

	type key struct{ group, person string }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	order := make([]key, 0)
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		k := key{groups[i], ids[i]}
		if counts[k] == 0 {
			order = append(order, k)
		}
		sums[k] += v
		counts[k]++
	}

	means := make(map[string][]float64)
	for _, k := range order {
		means[k.group] = append(means[k.group], sums[k]/float64(counts[k]))
	}
	return means, nil
}

// sortSummary orders rows for presentation: by value descending for plots,
// by group label for tables. Ties break on the label.
func sortSummary(rows []SummaryRow, mode Mode) {
	switch mode {
	case ModeTable:
		sort.Slice(rows, func(i, j int) bool { return rows[i].Group < rows[j].Group })
	default:
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Value != rows[j].Value {
				return rows[i].Value > rows[j].Value
			}
			return rows[i].Group < rows[j].Group
		})
	}
}

// median returns the middle value, averaging the central pair for even
// lengths. The input is copied before sorting.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), vs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}
