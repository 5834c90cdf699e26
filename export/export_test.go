package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tealeg/xlsx"

	vivainsights "github.com/microsoft/vivainsights-go"
	"github.com/microsoft/vivainsights-go/query"
)

type testTable struct{}

func (testTable) Header() []string { return []string{"Organization", "n"} }

func (testTable) Records() [][]string {
	return [][]string{{"Sales", "12"}, {"HR", "7"}}
}

func TestCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary")
	if err := CSV(testTable{}, path); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	data, err := os.ReadFile(path + ".csv")
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	want := "Organization,n\nSales,12\nHR,7\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}
}

func TestCSVKeepsExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := CSV(testTable{}, path); err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file missing: %v", err)
	}
}

func TestExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := Excel(testTable{}, path); err != nil {
		t.Fatalf("Excel: %v", err)
	}
	file, err := xlsx.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	if len(file.Sheets) != 1 || file.Sheets[0].Name != "Summary" {
		t.Fatalf("sheets = %d", len(file.Sheets))
	}
	rows := file.Sheets[0].Rows
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if got := rows[0].Cells[0].Value; got != "Organization" {
		t.Errorf("header cell = %q", got)
	}
	if got := rows[1].Cells[1].Value; got != "12" {
		t.Errorf("data cell = %q", got)
	}
}

func TestPNG(t *testing.T) {
	q, err := query.New(
		query.StringColumn("PersonId", []string{"p1", "p2"}),
		query.StringColumn("Organization", []string{"Sales", "HR"}),
		query.NumberColumn("Collaboration_hours", []float64{10, 20}),
	)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	out, err := vivainsights.CreateBar(q, "Collaboration_hours", "Organization",
		vivainsights.WithMinGroup(1))
	if err != nil {
		t.Fatalf("CreateBar: %v", err)
	}

	path := filepath.Join(t.TempDir(), "chart")
	if err := PNG(out, path); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	info, err := os.Stat(path + ".png")
	if err != nil {
		t.Fatalf("file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty PNG written")
	}
}

func TestTimestamped(t *testing.T) {
	name := Timestamped("collab summary")
	if !strings.HasPrefix(name, "collab summary ") {
		t.Fatalf("name = %q", name)
	}
	stamp := strings.TrimPrefix(name, "collab summary ")
	if _, err := time.Parse("2006-01-02 15-04-05", stamp); err != nil {
		t.Errorf("stamp %q does not parse: %v", stamp, err)
	}
}
