package vivainsights

import (
	"strings"
	"testing"
	"time"

	"github.com/microsoft/vivainsights-go/query"
)

// churnQuery spans eight weeks: person a is present throughout, person b
// only in the first half, person c only in the last half.
func churnQuery(t *testing.T) (*query.Query, []time.Time) {
	t.Helper()
	start := day(t, "2024-01-07")
	weeks := make([]time.Time, 8)
	for i := range weeks {
		weeks[i] = start.AddDate(0, 0, 7*i)
	}
	var ids []string
	var dates []time.Time
	add := func(id string, from, to int) {
		for i := from; i <= to; i++ {
			ids = append(ids, id)
			dates = append(dates, weeks[i])
		}
	}
	add("a", 0, 7)
	add("b", 0, 3)
	add("c", 4, 7)
	orgs := make([]string, len(ids))
	hours := make([]float64, len(ids))
	for i := range orgs {
		orgs[i] = "Sales"
		hours[i] = 1
	}
	return newWeeklyQuery(t, ids, orgs, dates, hours), weeks
}

func TestIdentifyChurn(t *testing.T) {
	q, weeks := churnQuery(t)

	r, err := IdentifyChurn(q, WithWindow(4, 4))
	if err != nil {
		t.Fatalf("IdentifyChurn: %v", err)
	}
	if !equalStrings(r.PersonIDs, []string{"b"}) {
		t.Errorf("leavers = %v, want [b]", r.PersonIDs)
	}
	if !r.FirstStart.Equal(weeks[0]) || !r.FirstEnd.Equal(weeks[3]) {
		t.Errorf("first window = %s..%s", r.FirstStart, r.FirstEnd)
	}
	if !r.LastStart.Equal(weeks[4]) || !r.LastEnd.Equal(weeks[7]) {
		t.Errorf("last window = %s..%s", r.LastStart, r.LastEnd)
	}
	text := r.Text()
	if !strings.HasPrefix(text, "Churn:\n") {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(text, "There are 1 employees from 2024-01-07 to 2024-01-28 (4 weeks) who are no longer present in 2024-02-04 to 2024-02-25 (4 weeks).") {
		t.Errorf("text = %q", text)
	}
}

func TestIdentifyChurnFlip(t *testing.T) {
	q, _ := churnQuery(t)

	r, err := IdentifyChurn(q, WithWindow(4, 4), WithFlip())
	if err != nil {
		t.Fatalf("IdentifyChurn: %v", err)
	}
	if !equalStrings(r.PersonIDs, []string{"c"}) {
		t.Errorf("joiners = %v, want [c]", r.PersonIDs)
	}
	if !strings.HasPrefix(r.Text(), "New joiners:\n") {
		t.Errorf("text = %q", r.Text())
	}
}

func TestIdentifyChurnShrinksWindows(t *testing.T) {
	d1, d2 := day(t, "2024-01-07"), day(t, "2024-01-14")
	q := newWeeklyQuery(t,
		[]string{"a", "b"},
		[]string{"Sales", "Sales"},
		[]time.Time{d1, d2},
		[]float64{1, 1},
	)
	r, err := IdentifyChurn(q)
	if err != nil {
		t.Fatalf("IdentifyChurn: %v", err)
	}
	if r.FirstWeeks != 2 || r.LastWeeks != 2 {
		t.Errorf("windows = %d/%d weeks, want 2/2", r.FirstWeeks, r.LastWeeks)
	}
	// With fully overlapping windows nobody churns.
	if len(r.PersonIDs) != 0 {
		t.Errorf("leavers = %v, want none", r.PersonIDs)
	}
}
