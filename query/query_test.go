package query

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestQuery(t *testing.T) *Query {
	t.Helper()
	q, err := New(
		StringColumn("PersonId", []string{"p01", "p02", "p03", "p04"}),
		TimeColumn("MetricDate", []time.Time{
			date(2024, 5, 5), date(2024, 5, 5), date(2024, 5, 12), date(2024, 5, 12),
		}),
		NumberColumn("Collaboration_hours", []float64{20, 24, 18, math.NaN()}),
		StringColumn("Organization", []string{"Sales", "Engineering", "Sales", "Engineering"}),
	)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return q
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		cols []*Column
	}{
		{"Empty", nil},
		{"LengthMismatch", []*Column{
			StringColumn("A", []string{"x", "y"}),
			NumberColumn("B", []float64{1}),
		}},
		{"DuplicateName", []*Column{
			StringColumn("A", []string{"x"}),
			NumberColumn("A", []float64{1}),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cols...); err == nil {
				t.Error("New() should fail")
			}
		})
	}
}

func TestQueryAccessors(t *testing.T) {
	q := newTestQuery(t)

	if q.Rows() != 4 {
		t.Errorf("Rows() = %d, want 4", q.Rows())
	}
	if !q.HasColumn("Organization") {
		t.Error("HasColumn(Organization) = false, want true")
	}
	if q.HasColumn("LevelDesignation") {
		t.Error("HasColumn(LevelDesignation) = true, want false")
	}

	hours, err := q.Numbers("Collaboration_hours")
	if err != nil {
		t.Fatalf("Numbers() failed: %v", err)
	}
	if hours[0] != 20 {
		t.Errorf("Numbers()[0] = %v, want 20", hours[0])
	}

	if _, err := q.Numbers("Organization"); err == nil {
		t.Error("Numbers() on a string column should fail")
	}
	if _, err := q.Strings("MetricDate"); err == nil {
		t.Error("Strings() on a time column should fail")
	}
	if _, err := q.Times("Missing"); err == nil {
		t.Error("Times() on a missing column should fail")
	}
}

func TestQueryHeaderRecords(t *testing.T) {
	q := newTestQuery(t)

	header := q.Header()
	want := []string{"PersonId", "MetricDate", "Collaboration_hours", "Organization"}
	if len(header) != len(want) {
		t.Fatalf("Header() has %d columns, want %d", len(header), len(want))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("Header()[%d] = %q, want %q", i, header[i], want[i])
		}
	}

	recs := q.Records()
	if len(recs) != 4 {
		t.Fatalf("Records() has %d rows, want 4", len(recs))
	}
	if recs[0][1] != "2024-05-05" {
		t.Errorf("time cell = %q, want 2024-05-05", recs[0][1])
	}
	if recs[3][2] != "" {
		t.Errorf("missing number cell = %q, want empty", recs[3][2])
	}
	if recs[1][2] != "24" {
		t.Errorf("number cell = %q, want 24", recs[1][2])
	}
}

func TestFilter(t *testing.T) {
	q := newTestQuery(t)

	orgs, _ := q.Strings("Organization")
	sales := q.Filter(func(i int) bool { return orgs[i] == "Sales" })

	if sales.Rows() != 2 {
		t.Fatalf("filtered Rows() = %d, want 2", sales.Rows())
	}
	ids, err := sales.Strings("PersonId")
	if err != nil {
		t.Fatalf("Strings() failed: %v", err)
	}
	if ids[0] != "p01" || ids[1] != "p03" {
		t.Errorf("filtered PersonId = %v, want [p01 p03]", ids)
	}

	// Filtering must not mutate the source.
	if q.Rows() != 4 {
		t.Errorf("source Rows() = %d, want 4", q.Rows())
	}
}

func TestFilter_Empty(t *testing.T) {
	q := newTestQuery(t)
	none := q.Filter(func(int) bool { return false })
	if none.Rows() != 0 {
		t.Errorf("Rows() = %d, want 0", none.Rows())
	}
	if len(none.Header()) != 4 {
		t.Errorf("Header() lost columns: %v", none.Header())
	}
}

func TestSelect(t *testing.T) {
	q := newTestQuery(t)

	sub, err := q.Select("Organization", "PersonId")
	if err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	header := sub.Header()
	if header[0] != "Organization" || header[1] != "PersonId" {
		t.Errorf("Select() order = %v, want [Organization PersonId]", header)
	}

	if _, err := q.Select("Nope"); err == nil {
		t.Error("Select() with unknown column should fail")
	}
}

func TestWithColumn(t *testing.T) {
	q := newTestQuery(t)

	q2, err := q.WithColumn(NumberColumn("Email_hours", []float64{5, 6, 7, 8}))
	if err != nil {
		t.Fatalf("WithColumn() failed: %v", err)
	}
	if !q2.HasColumn("Email_hours") {
		t.Error("WithColumn() did not add the column")
	}
	if q.HasColumn("Email_hours") {
		t.Error("WithColumn() mutated the source")
	}

	if _, err := q.WithColumn(NumberColumn("Short", []float64{1})); err == nil {
		t.Error("WithColumn() with wrong length should fail")
	}
}

func TestWithTotals(t *testing.T) {
	q := newTestQuery(t)

	q2, err := q.WithTotals()
	if err != nil {
		t.Fatalf("WithTotals() failed: %v", err)
	}
	vals, err := q2.Strings(TotalsColumn)
	if err != nil {
		t.Fatalf("Strings(Total) failed: %v", err)
	}
	for i, v := range vals {
		if v != TotalsColumn {
			t.Errorf("Total[%d] = %q, want %q", i, v, TotalsColumn)
		}
	}

	if _, err := q2.WithTotals(); err == nil {
		t.Error("WithTotals() should fail when the column already exists")
	}
}

func TestColumnDistinct(t *testing.T) {
	tests := []struct {
		name string
		col  *Column
		want int
	}{
		{"Strings", StringColumn("A", []string{"x", "y", "x", ""}), 2},
		{"Numbers", NumberColumn("B", []float64{1, 1, 2, math.NaN()}), 2},
		{"Times", TimeColumn("C", []time.Time{date(2024, 1, 1), date(2024, 1, 1), {}}), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.col.Distinct(); got != tt.want {
				t.Errorf("Distinct() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindString, "string"},
		{KindNumber, "number"},
		{KindTime, "time"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
