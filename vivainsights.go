// Package vivainsights analyses Microsoft Viva Insights flexible query
// exports: person queries, person-to-person and group-to-group collaboration
// queries read from CSV into query.Query tables.
//
// Every analysis follows the same pipeline: group the table by an
// organizational attribute, aggregate the metric per group, suppress groups
// below the minimum group size, and present the result as a terminal chart
// or a summary table. Charts are always rendered from the summary table, so
// the two views of one call cannot disagree.
package vivainsights

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/microsoft/vivainsights-go/internal/version"
	"github.com/microsoft/vivainsights-go/render"
)

var (
	// ErrAllSuppressed is returned when every group falls below the minimum
	// group size, leaving nothing to report.
	ErrAllSuppressed = errors.New("vivainsights: all groups fall below the minimum group size")
	// ErrNoMetrics is returned when none of the requested metric columns
	// exist in the query.
	ErrNoMetrics = errors.New("vivainsights: none of the requested metrics are present")
)

// Mode selects how an Output presents itself.
type Mode int

const (
	// ModePlot presents results as a terminal chart.
	ModePlot Mode = iota
	// ModeTable presents results as a text table.
	ModeTable
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModePlot:
		return "plot"
	case ModeTable:
		return "table"
	default:
		return "unknown"
	}
}

// Table is the tabular form shared by analysis results, terminal rendering
// and file export. *query.Query satisfies it, as do the summary types in
// this package.
type Table interface {
	Header() []string
	Records() [][]string
}

// Output is the result of an analysis call. Table always holds the
// aggregated values and Plot is rendered from them.
type Output struct {
	Mode  Mode
	Table Table
	Plot  string

	png func(path string) error
}

func newOutput(mode Mode, t Table, plot string, png func(string) error) *Output {
	return &Output{Mode: mode, Table: t, Plot: plot, png: png}
}

// String returns the chart in plot mode and the rendered table otherwise.
func (o *Output) String() string {
	if o.Mode == ModeTable {
		return renderTable(o.Table)
	}
	return o.Plot
}

// SavePNG writes the chart form of the output to path.
func (o *Output) SavePNG(path string) error {
	if o.png == nil {
		return errors.New("vivainsights: output has no chart form")
	}
	return o.png(path)
}

// Version returns the library release version.
func Version() string {
	return version.Version
}

func renderTable(t Table) string {
	if t == nil {
		return ""
	}
	return render.Table(t.Header(), t.Records())
}

// displayName turns a metric column name into its display form.
func displayName(metric string) string {
	return strings.ReplaceAll(metric, "_", " ")
}

// formatFloat renders a value for table records; NaN renders empty.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
