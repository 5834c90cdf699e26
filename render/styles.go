// Package render draws analysis results as terminal tables and charts and
// saves the same charts as PNG files.
package render

import "github.com/charmbracelet/lipgloss"

// Color definitions for the Viva Insights theme.
var (
	// Primary colors
	Primary           = lipgloss.Color("#1d627e")
	HighlightPositive = lipgloss.Color("#34b1e2")
	HighlightNegative = lipgloss.Color("#fe7f4f")
	NonHighlight      = lipgloss.Color("#e1e1e1")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")
)

// TrendPalette orders the theme colors from cold to hot. Heat grids use it
// as a ramp, with low values on the dark teal end.
var TrendPalette = []lipgloss.Color{
	"#0c3c44", "#1d627e", "#34b1e2", "#bfe5ee",
	"#fcf0eb", "#fbdacd", "#facebc", "#fe7f4f",
}

// LinePalette cycles across multi-series charts. The lighter ramp colors
// are left out so every series stays readable on both dark and light
// backgrounds.
var LinePalette = []lipgloss.Color{
	Primary, HighlightPositive, HighlightNegative,
	"#0c3c44", "#adc0cb", "#facebc",
}

// TitleStyle is used for chart and table headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// SubtitleStyle is used for the grouping line under a title.
var SubtitleStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// CaptionStyle is used for the date-range caption under a chart.
var CaptionStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// RuleStyle draws the accent rule between a title block and its body.
var RuleStyle = lipgloss.NewStyle().
	Foreground(HighlightNegative)

// BarStyle fills bar chart bars.
var BarStyle = lipgloss.NewStyle().
	Foreground(Primary)

// ValueStyle styles the numeric annotation at the end of a bar.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// TableHeaderStyle styles table header cells.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary)

// TableCellStyle styles table body cells.
var TableCellStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// HeatStyle returns the ramp style for a normalized value in [0, 1].
func HeatStyle(norm float64) lipgloss.Style {
	idx := int(norm * float64(len(TrendPalette)-1))
	if idx < 0 {
		idx = 0
	}
	if idx > len(TrendPalette)-1 {
		idx = len(TrendPalette) - 1
	}
	return lipgloss.NewStyle().Foreground(TrendPalette[idx])
}
