package vivainsights

import (
	"fmt"
	"sort"
	"time"

	"github.com/microsoft/vivainsights-go/query"
)

// ChurnResult lists the persons present in one end of a query's date range
// but absent from the other. Without WithFlip the persons are leavers
// (present early, gone late); with it they are new joiners.
type ChurnResult struct {
	PersonIDs  []string
	FirstStart time.Time
	FirstEnd   time.Time
	FirstWeeks int
	LastStart  time.Time
	LastEnd    time.Time
	LastWeeks  int
	Flipped    bool
}

// Text returns the diagnostic message.
func (r *ChurnResult) Text() string {
	if r.Flipped {
		return fmt.Sprintf(
			"New joiners:\nThere are %d employees from %s to %s (%d weeks) who were not present in %s to %s (%d weeks).",
			len(r.PersonIDs),
			r.LastStart.Format("2006-01-02"), r.LastEnd.Format("2006-01-02"), r.LastWeeks,
			r.FirstStart.Format("2006-01-02"), r.FirstEnd.Format("2006-01-02"), r.FirstWeeks)
	}
	return fmt.Sprintf(
		"Churn:\nThere are %d employees from %s to %s (%d weeks) who are no longer present in %s to %s (%d weeks).",
		len(r.PersonIDs),
		r.FirstStart.Format("2006-01-02"), r.FirstEnd.Format("2006-01-02"), r.FirstWeeks,
		r.LastStart.Format("2006-01-02"), r.LastEnd.Format("2006-01-02"), r.LastWeeks)
}

// IdentifyChurn compares the persons seen in the first weeks of a query
// against those seen in the last weeks. Window sizes default to six weeks
// each (WithWindow); windows longer than the available history shrink to
// fit.
func IdentifyChurn(q *query.Query, opts ...Option) (*ChurnResult, error) {
	cfg := newConfig(opts)
	dateCol, err := resolveDateColumn(q, cfg)
	if err != nil {
		return nil, err
	}
	dates, err := q.Times(dateCol)
	if err != nil {
		return nil, err
	}
	ids, err := q.Strings(cfg.idColumn)
	if err != nil {
		return nil, err
	}

	distinct := distinctDates(dates)
	if len(distinct) == 0 {
		return nil, query.ErrNoDateColumn
	}
	n1, n2 := cfg.firstWeeks, cfg.lastWeeks
	if n1 > len(distinct) {
		n1 = len(distinct)
	}
	if n2 > len(distinct) {
		n2 = len(distinct)
	}
	first := distinct[:n1]
	last := distinct[len(distinct)-n2:]

	window := func(member []time.Time) map[string]struct{} {
		set := make(map[time.Time]struct{}, len(member))
		for _, d := range member {
			set[d] = struct{}{}
		}
		people := make(map[string]struct{})
		for i, d := range dates {
			if _, ok := set[d]; ok {
				people[ids[i]] = struct{}{}
			}
		}
		return people
	}
	firstPeople := window(first)
	lastPeople := window(last)

	from, exclude := firstPeople, lastPeople
	if cfg.flip {
		from, exclude = lastPeople, firstPeople
	}
	var churned []string
	for id := range from {
		if _, ok := exclude[id]; !ok {
			churned = append(churned, id)
		}
	}
	sort.Strings(churned)

	return &ChurnResult{
		PersonIDs:  churned,
		FirstStart: first[0],
		FirstEnd:   first[len(first)-1],
		FirstWeeks: len(first),
		LastStart:  last[0],
		LastEnd:    last[len(last)-1],
		LastWeeks:  len(last),
		Flipped:    cfg.flip,
	}, nil
}

// distinctDates returns the sorted distinct non-zero values of a date
// column.
func distinctDates(dates []time.Time) []time.Time {
	set := make(map[time.Time]struct{})
	for _, d := range dates {
		if !d.IsZero() {
			set[d] = struct{}{}
		}
	}
	out := make([]time.Time, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
