package vivainsights

import (
	"sort"
	"strconv"

	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// CountRow is one group in a CountTable.
type CountRow struct {
	Group string
	N     int
}

// CountTable lists the distinct person count per value of an organizational
// attribute, largest group first.
type CountTable struct {
	HRVar     string
	DateRange string
	Rows      []CountRow
}

// Header returns the column names of the tabular form.
func (t *CountTable) Header() []string { return []string{t.HRVar, "n"} }

// Records returns the rows of the tabular form.
func (t *CountTable) Records() [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		recs = append(recs, []string{r.Group, strconv.Itoa(r.N)})
	}
	return recs
}

// HRVarCount counts distinct persons per value of an organizational
// attribute. An empty hrvar defaults to Organization. Groups are not
// size-suppressed.
func HRVarCount(q *query.Query, hrvar string, opts ...Option) (*Output, error) {
	cfg := newConfig(opts)
	if hrvar == "" {
		hrvar = cfg.hrvar
	}
	groups, err := q.Strings(hrvar)
	if err != nil {
		return nil, err
	}
	ids, err := q.Strings(cfg.idColumn)
	if err != nil {
		return nil, err
	}

	type key struct{ group, person string }
	seen := make(map[key]struct{})
	counts := make(map[string]int)
	for i, g := range groups {
		k := key{g, ids[i]}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		counts[g]++
	}

	rows := make([]CountRow, 0, len(counts))
	for g, n := range counts {
		rows = append(rows, CountRow{Group: g, N: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].N != rows[j].N {
			return rows[i].N > rows[j].N
		}
		return rows[i].Group < rows[j].Group
	})

	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Group
		values[i] = float64(r.N)
	}

	title := cfg.title
	if title == "" {
		title = "People by " + hrvar
	}
	caption := ""
	if text, terr := q.DateRangeText(); terr == nil {
		caption = text
	}

	t := &CountTable{HRVar: hrvar, DateRange: caption, Rows: rows}
	plot := render.Titled(title, cfg.subtitle, caption,
		render.BarChart(labels, values, cfg.width, "%.0f"))
	png := func(path string) error {
		return render.SaveBarPNG(path, title, cfg.subtitle, caption, labels, values)
	}
	return newOutput(cfg.mode, t, plot, png), nil
}
