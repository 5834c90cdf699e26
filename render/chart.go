package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/guptarohit/asciigraph"
)

// seriesColors cycle across the series of a multi-line chart.
var seriesColors = []asciigraph.AnsiColor{
	asciigraph.SteelBlue,
	asciigraph.SkyBlue,
	asciigraph.Coral,
	asciigraph.CadetBlue,
	asciigraph.Salmon,
	asciigraph.Gray,
}

// maxLabelWidth caps group labels in bar charts and heat grids.
const maxLabelWidth = 30

// BarChart renders a horizontal bar chart with one labelled bar per value.
// Value annotations use the given format verb; an empty format falls back
// to "%.1f".
func BarChart(labels []string, values []float64, width int, format string) string {
	if len(values) == 0 {
		return ""
	}
	if format == "" {
		format = "%.1f"
	}

	maxVal := 0.0
	for _, v := range values {
		if !math.IsNaN(v) && v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		if w := ansi.StringWidth(l); w > maxLabelLen {
			maxLabelLen = w
		}
	}
	if maxLabelLen > maxLabelWidth {
		maxLabelLen = maxLabelWidth
	}

	barWidth := width - maxLabelLen - 10 // Leave room for label and value
	if barWidth < 10 {
		barWidth = 10
	}

	var lines []string
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = ansi.Truncate(labels[i], maxLabelWidth, "")
		}

		paddedLabel := fmt.Sprintf("%*s", maxLabelLen, label)

		barLen := 0
		valueStr := ""
		if !math.IsNaN(v) {
			barLen = int((v / maxVal) * float64(barWidth))
			if barLen < 0 {
				barLen = 0
			}
			valueStr = " " + fmt.Sprintf(format, v)
		}

		bar := BarStyle.Render(strings.Repeat("█", barLen))
		line := paddedLabel + " │" + bar + ValueStyle.Render(valueStr)
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// LineChart renders a single-series line chart.
func LineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return CaptionStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// MultiLineChart renders one line per series with a legend underneath.
// Shorter series are padded with trailing zeros so every line spans the
// full x range.
func MultiLineChart(names []string, series [][]float64, width, height int, caption string) string {
	if len(series) == 0 {
		return CaptionStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	maxLen := 0
	for _, s := range series {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}

	padded := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		padded[i] = make([]float64, maxLen)
		copy(padded[i], s)
		colors[i] = seriesColors[i%len(seriesColors)]
	}

	graph := asciigraph.PlotMany(padded,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)

	items := make([]LegendItem, len(names))
	for i, name := range names {
		items[i] = LegendItem{
			Label: name,
			Color: LinePalette[i%len(LinePalette)],
		}
	}
	return graph + "\n\n" + Legend(items)
}

// HeatmapBlocks are Unicode block characters for heat grids (low to high
// intensity).
var HeatmapBlocks = []rune{'░', '▒', '▓', '█'}

// HeatGrid renders a rows-by-columns grid where each cell is shaded by its
// value rescaled to the row's own range. Cells holding NaN render blank.
func HeatGrid(rowLabels, colLabels []string, cells [][]float64) string {
	if len(cells) == 0 {
		return ""
	}

	labelW := 0
	for _, l := range rowLabels {
		if w := ansi.StringWidth(l); w > labelW {
			labelW = w
		}
	}
	if labelW > maxLabelWidth {
		labelW = maxLabelWidth
	}

	colW := 0
	for _, l := range colLabels {
		if w := ansi.StringWidth(l); w > colW {
			colW = w
		}
	}
	if colW < 3 {
		colW = 3
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelW))
	for _, l := range colLabels {
		b.WriteString("  ")
		b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%*s", colW, l)))
	}
	b.WriteString("\n")

	for r, row := range cells {
		label := ""
		if r < len(rowLabels) {
			label = ansi.Truncate(rowLabels[r], maxLabelWidth, "")
		}
		b.WriteString(fmt.Sprintf("%*s", labelW, label))

		lo, hi := rowRange(row)
		for _, v := range row {
			b.WriteString("  ")
			if math.IsNaN(v) {
				b.WriteString(strings.Repeat(" ", colW))
				continue
			}
			norm := 0.0
			if hi > lo {
				norm = (v - lo) / (hi - lo)
			}
			block := HeatmapBlocks[blockIndex(norm)]
			b.WriteString(HeatStyle(norm).Render(strings.Repeat(string(block), colW)))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// rowRange returns the smallest and largest non-NaN values of a row.
func rowRange(row []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range row {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// blockIndex maps a normalized value in [0, 1] to a heatmap block.
func blockIndex(norm float64) int {
	idx := int(norm * float64(len(HeatmapBlocks)-1))
	if idx < 0 {
		idx = 0
	}
	if idx > len(HeatmapBlocks)-1 {
		idx = len(HeatmapBlocks) - 1
	}
	return idx
}

// RangeStrip renders one min-to-max strip per label on a shared scale that
// starts at zero and allows ten percent headroom above the largest value.
// The low end of each strip is marked with an open dot, the high end with a
// filled one; a key line is appended underneath.
func RangeStrip(labels []string, lows, highs []float64, width int) string {
	if len(labels) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range highs {
		if !math.IsNaN(v) && v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	scale := maxVal * 1.1

	labelW := 0
	for _, l := range labels {
		if w := ansi.StringWidth(l); w > labelW {
			labelW = w
		}
	}
	if labelW > maxLabelWidth {
		labelW = maxLabelWidth
	}

	stripW := width - labelW - 18 // Leave room for label and value pair
	if stripW < 10 {
		stripW = 10
	}

	lowStyle := lipgloss.NewStyle().Foreground(HighlightNegative)
	highStyle := lipgloss.NewStyle().Foreground(Primary)

	var lines []string
	for i, label := range labels {
		paddedLabel := fmt.Sprintf("%*s", labelW, ansi.Truncate(label, maxLabelWidth, ""))

		lo, hi := math.NaN(), math.NaN()
		if i < len(lows) {
			lo = lows[i]
		}
		if i < len(highs) {
			hi = highs[i]
		}
		if math.IsNaN(lo) || math.IsNaN(hi) {
			lines = append(lines, paddedLabel+" │")
			continue
		}

		loPos := int(lo / scale * float64(stripW-1))
		hiPos := int(hi / scale * float64(stripW-1))
		if loPos < 0 {
			loPos = 0
		}
		if hiPos > stripW-1 {
			hiPos = stripW - 1
		}

		var strip string
		if hiPos <= loPos {
			strip = strings.Repeat(" ", loPos) + highStyle.Render("●")
		} else {
			strip = strings.Repeat(" ", loPos) +
				lowStyle.Render("○") +
				strings.Repeat("─", hiPos-loPos-1) +
				highStyle.Render("●")
		}

		value := ValueStyle.Render(fmt.Sprintf(" %.1f / %.1f", lo, hi))
		lines = append(lines, paddedLabel+" │"+strip+value)
	}

	key := lowStyle.Render("○ min") + "  " + highStyle.Render("● max")
	return strings.Join(lines, "\n") + "\n\n" + key
}

// Sparkline renders a compact inline sparkline.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	maxVal := 0.0
	for _, v := range values {
		if !math.IsNaN(v) && v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		if math.IsNaN(val) {
			result.WriteRune(' ')
			continue
		}
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		if normalized >= len(sparkChars) {
			normalized = len(sparkChars) - 1
		}
		if normalized < 0 {
			normalized = 0
		}
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// Legend renders a chart legend.
func Legend(items []LegendItem) string {
	var parts []string
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}
