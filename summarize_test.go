package vivainsights

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/microsoft/vivainsights-go/query"
)

// newPersonQuery builds a minimal person query from parallel slices.
func newPersonQuery(t *testing.T, ids, orgs []string, hours []float64) *query.Query {
	t.Helper()
	q, err := query.New(
		query.StringColumn("PersonId", ids),
		query.StringColumn("Organization", orgs),
		query.NumberColumn("Collaboration_hours", hours),
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

// newWeeklyQuery builds a person query with a MetricDate column.
func newWeeklyQuery(t *testing.T, ids, orgs []string, dates []time.Time, hours []float64) *query.Query {
	t.Helper()
	q, err := query.New(
		query.StringColumn("PersonId", ids),
		query.StringColumn("Organization", orgs),
		query.TimeColumn("MetricDate", dates),
		query.NumberColumn("Collaboration_hours", hours),
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

// day parses an ISO date.
func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestSummarizePersonWeighting(t *testing.T) {
	// p1 has two rows averaging 15, p2 has one row of 30. The group mean
	// must weight persons equally, not rows.
	q := newPersonQuery(t,
		[]string{"p1", "p1", "p2"},
		[]string{"Sales", "Sales", "Sales"},
		[]float64{10, 20, 30},
	)
	s, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(1))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(s.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(s.Rows))
	}
	if got := s.Rows[0].Value; got != 22.5 {
		t.Errorf("group mean = %v, want 22.5", got)
	}
	if got := s.Rows[0].N; got != 2 {
		t.Errorf("n = %d, want 2", got)
	}
}

func TestSummarizeSuppression(t *testing.T) {
	q := newPersonQuery(t,
		[]string{"p1", "p2", "p3", "p4"},
		[]string{"Sales", "Sales", "Sales", "HR"},
		[]float64{10, 20, 30, 40},
	)
	s, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(2))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, r := range s.Rows {
		if r.Group == "HR" {
			t.Errorf("suppressed group HR appears in output")
		}
	}
	if len(s.Rows) != 1 || s.Rows[0].Group != "Sales" {
		t.Errorf("rows = %+v, want only Sales", s.Rows)
	}
}

func TestSummarizeAllSuppressed(t *testing.T) {
	q := newPersonQuery(t, []string{"p1"}, []string{"Sales"}, []float64{10})
	_, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(5))
	if !errors.Is(err, ErrAllSuppressed) {
		t.Fatalf("err = %v, want ErrAllSuppressed", err)
	}
}

func TestSummarizeTotals(t *testing.T) {
	q := newPersonQuery(t,
		[]string{"p1", "p2"},
		[]string{"Sales", "HR"},
		[]float64{10, 30},
	)
	s, err := Summarize(q, "Collaboration_hours", "", WithMinGroup(1))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(s.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(s.Rows))
	}
	if s.Rows[0].Group != query.TotalsColumn {
		t.Errorf("group = %q, want %q", s.Rows[0].Group, query.TotalsColumn)
	}
	if s.Rows[0].Value != 20 {
		t.Errorf("total mean = %v, want 20", s.Rows[0].Value)
	}
}

func TestSummarizeMissingColumns(t *testing.T) {
	q := newPersonQuery(t, []string{"p1"}, []string{"Sales"}, []float64{10})
	if _, err := Summarize(q, "Collaboration_hours", "Nope", WithMinGroup(1)); !errors.Is(err, query.ErrColumnNotFound) {
		t.Errorf("missing hrvar: err = %v, want ErrColumnNotFound", err)
	}
	if _, err := Summarize(q, "Nope", "Organization", WithMinGroup(1)); !errors.Is(err, query.ErrColumnNotFound) {
		t.Errorf("missing metric: err = %v, want ErrColumnNotFound", err)
	}
}

func TestSummarizeOrdering(t *testing.T) {
	q := newPersonQuery(t,
		[]string{"p1", "p2", "p3"},
		[]string{"HR", "Sales", "Aviation"},
		[]float64{10, 30, 20},
	)

	plot, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(1))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	wantPlot := []string{"Sales", "Aviation", "HR"}
	for i, r := range plot.Rows {
		if r.Group != wantPlot[i] {
			t.Errorf("plot order[%d] = %q, want %q", i, r.Group, wantPlot[i])
		}
	}

	table, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(1), WithMode(ModeTable))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	wantTable := []string{"Aviation", "HR", "Sales"}
	for i, r := range table.Rows {
		if r.Group != wantTable[i] {
			t.Errorf("table order[%d] = %q, want %q", i, r.Group, wantTable[i])
		}
	}
}

func TestSummarizeStats(t *testing.T) {
	q := newPersonQuery(t,
		[]string{"p1", "p2", "p3", "p4"},
		[]string{"Sales", "Sales", "Sales", "Sales"},
		[]float64{10, 20, 30, 40},
	)
	s, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(1), WithStats())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	st := s.Rows[0].Stats
	if st == nil {
		t.Fatal("Stats = nil, want populated")
	}
	if st.Min != 10 || st.Max != 40 {
		t.Errorf("min/max = %v/%v, want 10/40", st.Min, st.Max)
	}
	if st.Median != 25 {
		t.Errorf("median = %v, want 25", st.Median)
	}
	if math.Abs(st.SD-12.909944487358056) > 1e-9 {
		t.Errorf("sd = %v, want ~12.91", st.SD)
	}

	header := s.Header()
	want := []string{"Organization", "Collaboration_hours", "n", "sd", "median", "min", "max"}
	if len(header) != len(want) {
		t.Fatalf("header = %v, want %v", header, want)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}
}

func TestSummarizeNaNCells(t *testing.T) {
	// p2's only cell is NaN, so p2 must not count toward n.
	q := newPersonQuery(t,
		[]string{"p1", "p2"},
		[]string{"Sales", "Sales"},
		[]float64{10, math.NaN()},
	)
	s, err := Summarize(q, "Collaboration_hours", "Organization", WithMinGroup(1))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Rows[0].N != 1 {
		t.Errorf("n = %d, want 1", s.Rows[0].N)
	}
	if s.Rows[0].Value != 10 {
		t.Errorf("mean = %v, want 10", s.Rows[0].Value)
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := median(tc.in); got != tc.want {
				t.Errorf("median(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
