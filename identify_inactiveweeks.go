package vivainsights

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/microsoft/vivainsights-go/query"
)

// InactiveWeeksResult flags person-weeks whose collaboration falls far
// below that person's own weekly average.
type InactiveWeeksResult struct {
	StdDevs float64
	Mean    float64

	cleaned *query.Query
	flagged *query.Query
}

// Text returns the diagnostic message.
func (r *InactiveWeeksResult) Text() string {
	return fmt.Sprintf(
		"There are %d rows of data with weekly collaboration hours more than %v standard deviations below the mean %.1f.",
		r.flagged.Rows(), r.StdDevs, r.Mean)
}

// Cleaned returns the query without the flagged person-weeks.
func (r *InactiveWeeksResult) Cleaned() *query.Query { return r.cleaned }

// Flagged returns the flagged person-weeks with their z_score column.
func (r *InactiveWeeksResult) Flagged() *query.Query { return r.flagged }

// IdentifyInactiveWeeks screens for person-weeks where Collaboration_hours
// sits a number of standard deviations (default 2, WithStdDev) below the
// person's own mean. The z-score uses the population deviation per person;
// a person with constant hours scores zero everywhere.
func IdentifyInactiveWeeks(q *query.Query, opts ...Option) (*InactiveWeeksResult, error) {
	cfg := newConfig(opts)
	sd := cfg.stdDev
	if sd == 0 {
		sd = 2
	}
	ids, err := q.Strings(cfg.idColumn)
	if err != nil {
		return nil, err
	}
	collab, err := q.Numbers("Collaboration_hours")
	if err != nil {
		return nil, err
	}

	byPerson := make(map[string][]float64)
	var valid []float64
	for i, v := range collab {
		if math.IsNaN(v) {
			continue
		}
		byPerson[ids[i]] = append(byPerson[ids[i]], v)
		valid = append(valid, v)
	}

	type moments struct{ mean, sd float64 }
	personStats := make(map[string]moments, len(byPerson))
	for id, vs := range byPerson {
		personStats[id] = moments{stat.Mean(vs, nil), stat.PopStdDev(vs, nil)}
	}

	z := make([]float64, len(collab))
	for i, v := range collab {
		if math.IsNaN(v) {
			z[i] = math.NaN()
			continue
		}
		m := personStats[ids[i]]
		if m.sd == 0 {
			z[i] = 0
			continue
		}
		z[i] = (v - m.mean) / m.sd
	}

	withZ, err := q.WithColumn(query.NumberColumn("z_score", z))
	if err != nil {
		return nil, err
	}
	flag := func(row int) bool { return z[row] <= -sd }

	r := &InactiveWeeksResult{
		StdDevs: sd,
		cleaned: q.Filter(func(row int) bool { return !flag(row) }),
		flagged: withZ.Filter(flag),
	}
	if len(valid) > 0 {
		r.Mean = stat.Mean(valid, nil)
	}
	return r, nil
}
