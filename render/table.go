package render

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Table renders a header and records as an aligned monospace grid.
func Table(header []string, records [][]string) string {
	if len(header) == 0 {
		return ""
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = ansi.StringWidth(h)
	}
	for _, rec := range records {
		for i, cell := range rec {
			if i >= len(widths) {
				break
			}
			if w := ansi.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, h := range header {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(TableHeaderStyle.Render(pad(h, widths[i])))
	}
	b.WriteString("\n")
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("─", w))
	}
	for _, rec := range records {
		b.WriteString("\n")
		for i, cell := range rec {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(TableCellStyle.Render(pad(cell, widths[i])))
		}
	}

	return b.String()
}

// Titled frames a body with a title block, accent rule and caption, in the
// layout used across all the package's charts. Empty parts are skipped.
func Titled(title, subtitle, caption, body string) string {
	width := 0
	for _, line := range strings.Split(body, "\n") {
		if w := ansi.StringWidth(line); w > width {
			width = w
		}
	}
	if width < 24 {
		width = 24
	}
	if width > 80 {
		width = 80
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(TitleStyle.Render(title))
		b.WriteString("\n")
	}
	if subtitle != "" {
		b.WriteString(SubtitleStyle.Render(subtitle))
		b.WriteString("\n")
	}
	b.WriteString(RuleStyle.Render("▄" + strings.Repeat("─", width-1)))
	b.WriteString("\n")
	b.WriteString(body)
	if caption != "" {
		b.WriteString("\n\n")
		b.WriteString(CaptionStyle.Render(caption))
	}
	return b.String()
}

// pad right-pads a cell to the given display width.
func pad(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
