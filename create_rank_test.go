package vivainsights

import (
	"errors"
	"strings"
	"testing"

	"github.com/microsoft/vivainsights-go/query"
)

func newRankQuery(t *testing.T) *query.Query {
	t.Helper()
	q, err := query.New(
		query.StringColumn("PersonId", []string{"p1", "p2", "p3", "p4"}),
		query.StringColumn("Organization", []string{"Sales", "Sales", "HR", "HR"}),
		query.StringColumn("FunctionType", []string{"Field", "Field", "Corporate", "Corporate"}),
		query.NumberColumn("Collaboration_hours", []float64{10, 20, 30, 40}),
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func TestCreateRank(t *testing.T) {
	out, err := CreateRank(newRankQuery(t), "Collaboration_hours", nil, WithMinGroup(1))
	if err != nil {
		t.Fatalf("CreateRank: %v", err)
	}
	r, ok := out.Table.(*Ranking)
	if !ok {
		t.Fatalf("table type = %T, want *Ranking", out.Table)
	}
	// Both default attributes are present, two groups each.
	if len(r.Rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(r.Rows))
	}
	for i := 1; i < len(r.Rows); i++ {
		if r.Rows[i].Value > r.Rows[i-1].Value {
			t.Errorf("rows not ordered by value: %v before %v",
				r.Rows[i-1].Value, r.Rows[i].Value)
		}
	}
	if r.Rows[0].Group != "Corporate" && r.Rows[0].Group != "HR" {
		t.Errorf("top group = %q, want Corporate or HR (both 35)", r.Rows[0].Group)
	}
	if !strings.Contains(out.Plot, "By organizational attributes") {
		t.Errorf("plot missing subtitle:\n%s", out.Plot)
	}
}

func TestCreateRankTieOrder(t *testing.T) {
	// Corporate (FunctionType) and HR (Organization) tie at 35; the
	// attribute name breaks the tie.
	out, err := CreateRank(newRankQuery(t), "Collaboration_hours", nil, WithMinGroup(1))
	if err != nil {
		t.Fatalf("CreateRank: %v", err)
	}
	r := out.Table.(*Ranking)
	if r.Rows[0].HRVar != "FunctionType" || r.Rows[0].Group != "Corporate" {
		t.Errorf("rows[0] = %s/%s, want FunctionType/Corporate", r.Rows[0].HRVar, r.Rows[0].Group)
	}
	if r.Rows[1].HRVar != "Organization" || r.Rows[1].Group != "HR" {
		t.Errorf("rows[1] = %s/%s, want Organization/HR", r.Rows[1].HRVar, r.Rows[1].Group)
	}
}

func TestCreateRankExplicitHRVars(t *testing.T) {
	out, err := CreateRank(newRankQuery(t), "Collaboration_hours",
		[]string{"Organization"}, WithMinGroup(1))
	if err != nil {
		t.Fatalf("CreateRank: %v", err)
	}
	r := out.Table.(*Ranking)
	for _, row := range r.Rows {
		if row.HRVar != "Organization" {
			t.Errorf("unexpected attribute %q", row.HRVar)
		}
	}
	if len(r.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(r.Rows))
	}
}

func TestCreateRankNoAttributes(t *testing.T) {
	q, err := query.New(
		query.StringColumn("PersonId", []string{"p1"}),
		query.NumberColumn("Collaboration_hours", []float64{10}),
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	if _, err := CreateRank(q, "Collaboration_hours", nil, WithMinGroup(1)); !errors.Is(err, query.ErrColumnNotFound) {
		t.Fatalf("err = %v, want ErrColumnNotFound", err)
	}
}

func TestCreateRankStatsHeader(t *testing.T) {
	out, err := CreateRank(newRankQuery(t), "Collaboration_hours", nil,
		WithMinGroup(1), WithStats(), WithMode(ModeTable))
	if err != nil {
		t.Fatalf("CreateRank: %v", err)
	}
	r := out.Table.(*Ranking)
	want := []string{"hrvar", "attributes", "Collaboration_hours", "n", "sd", "median", "min", "max"}
	if got := r.Header(); !equalStrings(got, want) {
		t.Errorf("header = %v, want %v", got, want)
	}
}
