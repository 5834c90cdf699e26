package query

import (
	"errors"
	"fmt"
	"time"
)

// defaultMaxUnique caps how many distinct values a column may hold and still
// count as an organizational attribute.
const defaultMaxUnique = 50

// Frequency describes the date grouping of a query.
type Frequency int

const (
	FreqUnknown Frequency = iota
	FreqDaily
	FreqWeekly
	FreqMonthly
)

// String returns the frequency name.
func (f Frequency) String() string {
	switch f {
	case FreqDaily:
		return "daily"
	case FreqWeekly:
		return "weekly"
	case FreqMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// DateColumn returns the name of the primary date column. Columns are tried
// in the order Date, MetricDate, StartDate; the column must have parsed as
// dates during import.
func (q *Query) DateColumn() (string, error) {
	for _, name := range []string{"Date", "MetricDate", "StartDate"} {
		if c, err := q.Column(name); err == nil && c.Kind == KindTime {
			return name, nil
		}
	}
	return "", ErrNoDateColumn
}

// DateRange returns the earliest and latest date covered by the query.
// When the query carries StartDate and EndDate columns, both contribute.
func (q *Query) DateRange() (start, end time.Time, err error) {
	name, err := q.DateColumn()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	dates, err := q.Times(name)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if name == "StartDate" {
		if c, cerr := q.Column("EndDate"); cerr == nil && c.Kind == KindTime {
			dates = append(append([]time.Time{}, dates...), c.Times...)
		}
	}
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if start.IsZero() || d.Before(start) {
			start = d
		}
		if end.IsZero() || d.After(end) {
			end = d
		}
	}
	if start.IsZero() {
		return time.Time{}, time.Time{}, ErrNoDateColumn
	}
	return start, end, nil
}

// DateRangeText returns the query's date coverage as a sentence, for use in
// chart captions.
func (q *Query) DateRangeText() (string, error) {
	start, end, err := q.DateRange()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Data from %s to %s",
		start.Format("2006-01-02"), end.Format("2006-01-02")), nil
}

// HRAttributes returns the names of columns that look like organizational
// attributes: string columns with at least two and at most maxUnique
// distinct values. A maxUnique of zero or below applies the default of 50.
// Column order is preserved.
func (q *Query) HRAttributes(maxUnique int) []string {
	if maxUnique <= 0 {
		maxUnique = defaultMaxUnique
	}
	var names []string
	for _, c := range q.cols {
		if c.Kind != KindString {
			continue
		}
		n := c.Distinct()
		if n < 2 || n > maxUnique {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// DateFrequency identifies whether the query's dates are grouped daily,
// weekly or monthly. Weekly queries place every date on a Sunday; monthly
// queries give every row a distinct month.
func (q *Query) DateFrequency() (Frequency, error) {
	name, err := q.DateColumn()
	if err != nil {
		return FreqUnknown, err
	}
	all, err := q.Times(name)
	if err != nil {
		return FreqUnknown, err
	}
	var dates []time.Time
	for _, d := range all {
		if !d.IsZero() {
			dates = append(dates, d)
		}
	}
	if len(dates) == 0 {
		return FreqUnknown, ErrNoDateColumn
	}

	months := make(map[time.Month]struct{})
	weekdays := make(map[time.Weekday]struct{})
	sundays := 0
	for _, d := range dates {
		months[d.Month()] = struct{}{}
		weekdays[d.Weekday()] = struct{}{}
		if d.Weekday() == time.Sunday {
			sundays++
		}
	}

	switch {
	case len(months) == len(dates):
		return FreqMonthly, nil
	case sundays == len(dates):
		return FreqWeekly, nil
	case len(weekdays) >= 3:
		return FreqDaily, nil
	default:
		return FreqUnknown, errors.New("query: unable to identify date frequency")
	}
}
