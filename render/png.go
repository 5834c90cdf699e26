package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Series pairs a legend name with one value per x position.
type Series struct {
	Name   string
	Values []float64
}

// SaveBarPNG writes a horizontal bar chart to path. Bars appear in label
// order from the bottom up.
func SaveBarPNG(path, title, subtitle, caption string, labels []string, values []float64) error {
	p := newFigure(title, subtitle, caption)

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(18))
	if err != nil {
		return fmt.Errorf("render: bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = rgba(Primary)
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(labels...)

	return save(p, path)
}

// SaveLinePNG writes a multi-series line chart over time to path. NaN
// values leave gaps in their series.
func SaveLinePNG(path, title, subtitle, caption string, x []time.Time, series []Series) error {
	p := newFigure(title, subtitle, caption)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}

	for i, s := range series {
		xys := make(plotter.XYs, 0, len(x))
		for j, t := range x {
			if j >= len(s.Values) || math.IsNaN(s.Values[j]) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(t.Unix()), Y: s.Values[j]})
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("render: line %q: %w", s.Name, err)
		}
		line.Color = rgba(LinePalette[i%len(LinePalette)])
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	return save(p, path)
}

// SaveHeatPNG writes a rows-by-columns heat map to path. Cell colors follow
// the trend ramp; NaN cells are left uncolored.
func SaveHeatPNG(path, title, subtitle, caption string, rowLabels, colLabels []string, cells [][]float64) error {
	p := newFigure(title, subtitle, caption)

	grid := heatGrid{cols: len(colLabels), cells: cells}
	hm := plotter.NewHeatMap(grid, trendRamp())

	// Color range over the finite cells only.
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range cells {
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
	}
	if lo < hi {
		hm.Min, hm.Max = lo, hi
	}

	p.Add(hm)
	p.NominalX(colLabels...)
	p.NominalY(rowLabels...)

	return save(p, path)
}

// newFigure builds a plot with the shared title and caption layout.
func newFigure(title, subtitle, caption string) *plot.Plot {
	p := plot.New()
	text := title
	if subtitle != "" {
		text += "\n" + subtitle
	}
	p.Title.Text = text
	p.Title.TextStyle.Color = rgba(Primary)
	p.X.Label.Text = caption
	return p
}

// save writes the plot as an 8x5 inch PNG.
func save(p *plot.Plot, path string) error {
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

// heatGrid adapts a rows-by-columns matrix to the plotter grid interface.
type heatGrid struct {
	cols  int
	cells [][]float64
}

func (g heatGrid) Dims() (c, r int)   { return g.cols, len(g.cells) }
func (g heatGrid) Z(c, r int) float64 { return g.cells[r][c] }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }

// ramp is a fixed-color palette.
type ramp []color.Color

func (r ramp) Colors() []color.Color { return r }

// trendRamp converts the trend palette for heat map use.
func trendRamp() palette.Palette {
	colors := make([]color.Color, len(TrendPalette))
	for i, c := range TrendPalette {
		colors[i] = rgba(c)
	}
	return ramp(colors)
}

// rgba converts a hex color like "#1d627e" to an opaque RGBA value.
func rgba(c lipgloss.Color) color.RGBA {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) != 6 {
		return color.RGBA{A: 255}
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
