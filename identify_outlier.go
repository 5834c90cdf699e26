package vivainsights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/microsoft/vivainsights-go/query"
)

// OutlierRow is one group with its metric mean and z-score.
type OutlierRow struct {
	Group  string
	Value  float64
	ZScore float64
}

// OutlierTable lists each group's metric mean and how far it sits from the
// mean across groups, in standard deviations.
type OutlierTable struct {
	GroupBy string
	Metric  string
	Rows    []OutlierRow
}

// Header returns the column names of the tabular form.
func (t *OutlierTable) Header() []string {
	return []string{t.GroupBy, t.Metric, "zscore"}
}

// Records returns the rows of the tabular form.
func (t *OutlierTable) Records() [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		recs = append(recs, []string{r.Group, formatFloat(r.Value), formatFloat(r.ZScore)})
	}
	return recs
}

// IdentifyOutliers computes the plain row mean of a metric per group and
// z-scores the group means against each other. An empty metric defaults to
// Collaboration_hours, an empty groupBy to MetricDate, making the default
// call a scan for unusual weeks.
func IdentifyOutliers(q *query.Query, metric, groupBy string, opts ...Option) (*OutlierTable, error) {
	cfg := newConfig(opts)
	if metric == "" {
		metric = "Collaboration_hours"
	}
	if groupBy == "" {
		groupBy = "MetricDate"
	}
	if !q.HasColumn(cfg.idColumn) {
		return nil, fmt.Errorf("%w: %q", query.ErrColumnNotFound, cfg.idColumn)
	}
	groupCol, err := q.Column(groupBy)
	if err != nil {
		return nil, err
	}
	values, err := q.Numbers(metric)
	if err != nil {
		return nil, err
	}

	type agg struct {
		sum   float64
		n     int
		order time.Time
	}
	aggs := make(map[string]*agg)
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		label := groupCol.Value(i)
		if label == "" {
			continue
		}
		a := aggs[label]
		if a == nil {
			a = &agg{}
			if groupCol.Kind == query.KindTime {
				a.order = groupCol.Times[i]
			}
			aggs[label] = a
		}
		a.sum += v
		a.n++
	}

	type entry struct {
		label string
		order time.Time
		mean  float64
	}
	entries := make([]entry, 0, len(aggs))
	for label, a := range aggs {
		entries = append(entries, entry{label, a.order, a.sum / float64(a.n)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].order.Equal(entries[j].order) {
			return entries[i].order.Before(entries[j].order)
		}
		return entries[i].label < entries[j].label
	})

	means := make([]float64, len(entries))
	for i, e := range entries {
		means[i] = e.mean
	}
	mean := stat.Mean(means, nil)
	sdev := stat.StdDev(means, nil)

	t := &OutlierTable{GroupBy: groupBy, Metric: metric}
	for i, e := range entries {
		t.Rows = append(t.Rows, OutlierRow{
			Group:  e.label,
			Value:  e.mean,
			ZScore: (means[i] - mean) / sdev,
		})
	}
	return t, nil
}
