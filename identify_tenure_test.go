package vivainsights

import (
	"testing"
	"time"

	"github.com/microsoft/vivainsights-go/query"
)

func newTenureQuery(t *testing.T, hires []time.Time) *query.Query {
	t.Helper()
	d := day(t, "2024-01-14")
	q, err := query.New(
		query.StringColumn("PersonId", []string{"p1", "p1", "p2"}),
		query.TimeColumn("MetricDate", []time.Time{d.AddDate(0, 0, -7), d, d}),
		query.TimeColumn("HireDate", hires),
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func TestIdentifyTenure(t *testing.T) {
	h1 := day(t, "2019-01-14")
	h2 := day(t, "1980-01-14")
	q := newTenureQuery(t, []time.Time{h1, h1, h2})

	r, err := IdentifyTenure(q)
	if err != nil {
		t.Fatalf("IdentifyTenure: %v", err)
	}
	if !r.EndDate.Equal(day(t, "2024-01-14")) {
		t.Errorf("end date = %s", r.EndDate)
	}
	if !equalStrings(r.OddPeople, []string{"p2"}) {
		t.Errorf("odd people = %v, want [p2]", r.OddPeople)
	}
	if r.OddBands != 1 {
		t.Errorf("odd bands = %d, want 1", r.OddBands)
	}
	if got := r.Flagged().Rows(); got != 1 {
		t.Errorf("flagged rows = %d, want 1", got)
	}
	if got := r.Cleaned().Rows(); got != 2 {
		t.Errorf("cleaned rows = %d, want 2", got)
	}

	want := "The mean tenure is 24.5 years.\nThe max tenure is 44.0.\nThere are 1 employees with a tenure greater than 40 years."
	if got := r.Text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestIdentifyTenureCeiling(t *testing.T) {
	h1 := day(t, "2019-01-14")
	h2 := day(t, "1980-01-14")
	q := newTenureQuery(t, []time.Time{h1, h1, h2})

	r, err := IdentifyTenure(q, WithMaxTenure(50))
	if err != nil {
		t.Fatalf("IdentifyTenure: %v", err)
	}
	if len(r.OddPeople) != 0 {
		t.Errorf("odd people = %v, want none", r.OddPeople)
	}
	if got := r.Cleaned().Rows(); got != 3 {
		t.Errorf("cleaned rows = %d, want 3", got)
	}
}

func TestIdentifyTenureNoHireDates(t *testing.T) {
	q := newTenureQuery(t, make([]time.Time, 3))
	if _, err := IdentifyTenure(q); err == nil {
		t.Fatal("expected error when HireDate is empty")
	}
}

func TestIdentifyTenureMissingColumn(t *testing.T) {
	q := newPersonQuery(t, []string{"p1"}, []string{"Sales"}, []float64{1})
	if _, err := IdentifyTenure(q); err == nil {
		t.Fatal("expected error without HireDate")
	}
}

func TestIdentifyTenureSkipsMissingHires(t *testing.T) {
	h1 := day(t, "2019-01-14")
	q := newTenureQuery(t, []time.Time{h1, h1, {}})

	r, err := IdentifyTenure(q)
	if err != nil {
		t.Fatalf("IdentifyTenure: %v", err)
	}
	if _, ok := r.Years["p2"]; ok {
		t.Errorf("p2 has tenure %v, want skipped", r.Years["p2"])
	}
	if len(r.Years) != 1 {
		t.Errorf("years = %v, want only p1", r.Years)
	}
}
