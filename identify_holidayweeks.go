package vivainsights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// HolidayWeeksResult flags the weeks whose population mean collaboration
// sits well below the mean of all weeks, which in practice picks out
// holiday and shutdown weeks.
type HolidayWeeksResult struct {
	Weeks   []time.Time
	Dates   []time.Time
	Means   []float64
	ZScores []float64
	Mean    float64
	SD      float64
	StdDevs float64
	Plot    string

	cleaned  *query.Query
	flagged  *query.Query
	labelled *query.Query
}

// Text returns the diagnostic message.
func (r *HolidayWeeksResult) Text() string {
	if len(r.Weeks) == 0 {
		return fmt.Sprintf(
			"There are no weeks where collaboration was %v standard deviations below the mean (%.1f).",
			r.StdDevs, r.Mean)
	}
	quoted := make([]string, len(r.Weeks))
	for i, w := range r.Weeks {
		quoted[i] = "`" + w.Format("01/02/2006") + "`"
	}
	return fmt.Sprintf(
		"The weeks where collaboration was %v standard deviations below the mean (%.1f) are: %s",
		r.StdDevs, r.Mean, strings.Join(quoted, ", "))
}

// Cleaned returns the query without the flagged weeks.
func (r *HolidayWeeksResult) Cleaned() *query.Query { return r.cleaned }

// Flagged returns only the rows falling in flagged weeks.
func (r *HolidayWeeksResult) Flagged() *query.Query { return r.flagged }

// Labelled returns the query with a holidayweek column marking flagged
// rows True.
func (r *HolidayWeeksResult) Labelled() *query.Query { return r.labelled }

// IdentifyHolidayWeeks screens for weeks whose mean Collaboration_hours
// falls more than a number of standard deviations (default 1, WithStdDev)
// below the mean across weeks.
func IdentifyHolidayWeeks(q *query.Query, opts ...Option) (*HolidayWeeksResult, error) {
	cfg := newConfig(opts)
	sd := cfg.stdDev
	if sd == 0 {
		sd = 1
	}
	dateCol, err := resolveDateColumn(q, cfg)
	if err != nil {
		return nil, err
	}
	dates, err := q.Times(dateCol)
	if err != nil {
		return nil, err
	}
	collab, err := q.Numbers("Collaboration_hours")
	if err != nil {
		return nil, err
	}

	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)
	for i, d := range dates {
		if d.IsZero() || math.IsNaN(collab[i]) {
			continue
		}
		sums[d] += collab[i]
		counts[d]++
	}
	if len(sums) == 0 {
		return nil, query.ErrNoDateColumn
	}
	weeks := make([]time.Time, 0, len(sums))
	for d := range sums {
		weeks = append(weeks, d)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	means := make([]float64, len(weeks))
	for i, w := range weeks {
		means[i] = sums[w] / float64(counts[w])
	}
	mean := stat.Mean(means, nil)
	sdev := stat.StdDev(means, nil)

	zscores := make([]float64, len(weeks))
	flagSet := make(map[time.Time]struct{})
	var flagged []time.Time
	for i := range weeks {
		zscores[i] = (means[i] - mean) / sdev
		if zscores[i] < -sd {
			flagSet[weeks[i]] = struct{}{}
			flagged = append(flagged, weeks[i])
		}
	}

	inFlagged := func(row int) bool {
		_, ok := flagSet[dates[row]]
		return ok
	}
	labels := make([]string, len(dates))
	for i := range dates {
		if inFlagged(i) {
			labels[i] = "True"
		} else {
			labels[i] = "False"
		}
	}
	labelled, err := q.WithColumn(query.StringColumn("holidayweek", labels))
	if err != nil {
		return nil, err
	}

	r := &HolidayWeeksResult{
		Weeks:    flagged,
		Dates:    weeks,
		Means:    means,
		ZScores:  zscores,
		Mean:     mean,
		SD:       sdev,
		StdDevs:  sd,
		cleaned:  q.Filter(func(row int) bool { return !inFlagged(row) }),
		flagged:  q.Filter(inFlagged),
		labelled: labelled,
	}
	r.Plot = holidayWeeksPlot(r, cfg.width)
	return r, nil
}

// holidayWeeksPlot draws the weekly means with a marker series over the
// flagged weeks.
func holidayWeeksPlot(r *HolidayWeeksResult, width int) string {
	caption := fmt.Sprintf("Data from week of %s to week of %s",
		r.Dates[0].Format("Jan 02, '06"), r.Dates[len(r.Dates)-1].Format("Jan 02, '06"))

	if len(r.Weeks) == 0 {
		body := render.LineChart(r.Means, width-10, chartHeight, "")
		return render.Titled("Holiday Weeks", "Showing average collaboration hours per week", caption, body)
	}

	markers := make([]float64, len(r.Means))
	flagSet := make(map[time.Time]struct{}, len(r.Weeks))
	for _, w := range r.Weeks {
		flagSet[w] = struct{}{}
	}
	for i, d := range r.Dates {
		if _, ok := flagSet[d]; ok {
			markers[i] = r.Means[i]
		} else {
			markers[i] = math.NaN()
		}
	}
	body := render.MultiLineChart(
		[]string{"Weekly mean", "Holiday week"},
		[][]float64{r.Means, markers},
		width-10, chartHeight, "")
	return render.Titled("Holiday Weeks", "Showing average collaboration hours per week", caption, body)
}
