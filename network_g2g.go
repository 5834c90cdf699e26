package vivainsights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/microsoft/vivainsights-go/internal/logger"
	"github.com/microsoft/vivainsights-go/query"
	"github.com/microsoft/vivainsights-go/render"
)

// withinGroup is the secondary collaborator label marking collaboration
// that stays inside the primary group.
const withinGroup = "Within Group"

// otherCollaborators is the catch-all secondary label excluded from the
// group-to-group matrix.
const otherCollaborators = "Other_Collaborators"

// G2GMatrix holds, for every primary group, the proportion of its
// collaboration landing on each secondary group. Rows sum to one over the
// retained secondaries; absent pairs hold NaN.
type G2GMatrix struct {
	PrimaryColumn   string
	SecondaryColumn string
	Metric          string
	Exclusion       float64
	Primaries       []string
	Secondaries     []string
	Cells           [][]float64
	Plot            string
}

// Header returns the primary group column followed by one column per
// secondary group.
func (m *G2GMatrix) Header() []string {
	h := make([]string, 0, len(m.Secondaries)+1)
	h = append(h, m.PrimaryColumn)
	return append(h, m.Secondaries...)
}

// Records returns one row of proportions per primary group.
func (m *G2GMatrix) Records() [][]string {
	recs := make([][]string, 0, len(m.Primaries))
	for i, p := range m.Primaries {
		rec := make([]string, 0, len(m.Secondaries)+1)
		rec = append(rec, p)
		for _, v := range m.Cells[i] {
			rec = append(rec, formatFloat(v))
		}
		recs = append(recs, rec)
	}
	return recs
}

// SavePNG writes the thresholded heat grid to a PNG file.
func (m *G2GMatrix) SavePNG(path string) error {
	return render.SaveHeatPNG(path, "Group to Group Collaboration",
		"Collaboration Across Organizations", m.caption(),
		m.Primaries, m.Secondaries, m.plotCells())
}

// plotCells blanks the proportions below the exclusion threshold.
func (m *G2GMatrix) plotCells() [][]float64 {
	cells := make([][]float64, len(m.Cells))
	for i, row := range m.Cells {
		out := make([]float64, len(row))
		for j, v := range row {
			if v < m.Exclusion {
				out[j] = math.NaN()
			} else {
				out[j] = v
			}
		}
		cells[i] = out
	}
	return cells
}

func (m *G2GMatrix) caption() string {
	return fmt.Sprintf("Displays only collaboration above %d%% of node's total collaboration",
		int(m.Exclusion*100))
}

// NetworkG2G reduces a group-to-group query to a collaboration proportion
// matrix. The primary and secondary group columns are the first columns
// named PrimaryCollaborator_* and SecondaryCollaborator_*; the measure
// defaults to Meeting_Count (first WithMetrics name overrides). Within
// Group rows fold into the primary group and Other_Collaborators rows are
// dropped before proportions are taken.
func NetworkG2G(q *query.Query, opts ...Option) (*G2GMatrix, error) {
	cfg := newConfig(opts)
	metric := "Meeting_Count"
	if len(cfg.metrics) > 0 {
		metric = cfg.metrics[0]
	}

	primaryCol, secondaryCol := "", ""
	for _, name := range q.Header() {
		if primaryCol == "" && strings.HasPrefix(name, "PrimaryCollaborator_") {
			primaryCol = name
		}
		if secondaryCol == "" && strings.HasPrefix(name, "SecondaryCollaborator_") {
			secondaryCol = name
		}
	}
	if primaryCol == "" || secondaryCol == "" {
		return nil, fmt.Errorf("%w: no collaborator group columns", query.ErrColumnNotFound)
	}

	prim, err := q.Strings(primaryCol)
	if err != nil {
		return nil, err
	}
	sec, err := q.Strings(secondaryCol)
	if err != nil {
		return nil, err
	}
	values, err := q.Numbers(metric)
	if err != nil {
		return nil, err
	}

	type pair struct{ p, s string }
	sums := make(map[pair]float64)
	counts := make(map[pair]int)
	folded := 0
	for i := range prim {
		if prim[i] == "" || sec[i] == "" || math.IsNaN(values[i]) {
			continue
		}
		s := sec[i]
		if strings.TrimSpace(s) == withinGroup {
			s = prim[i]
			folded++
		}
		k := pair{prim[i], s}
		sums[k] += values[i]
		counts[k]++
	}
	if folded == 0 {
		logger.Warn("no Within Group rows in the secondary collaborator column",
			"column", secondaryCol)
	}

	means := make(map[pair]float64)
	totals := make(map[string]float64)
	primSet := make(map[string]struct{})
	secSet := make(map[string]struct{})
	for k, sum := range sums {
		if k.s == otherCollaborators {
			continue
		}
		m := sum / float64(counts[k])
		means[k] = m
		totals[k.p] += m
		primSet[k.p] = struct{}{}
		secSet[k.s] = struct{}{}
	}
	if len(means) == 0 {
		return nil, query.ErrEmptyQuery
	}

	primaries := sortedSet(primSet)
	secondaries := sortedSet(secSet)
	cells := make([][]float64, len(primaries))
	for i, p := range primaries {
		row := make([]float64, len(secondaries))
		for j, s := range secondaries {
			if m, ok := means[pair{p, s}]; ok {
				row[j] = m / totals[p]
			} else {
				row[j] = math.NaN()
			}
		}
		cells[i] = row
	}

	matrix := &G2GMatrix{
		PrimaryColumn:   primaryCol,
		SecondaryColumn: secondaryCol,
		Metric:          metric,
		Exclusion:       cfg.exclusion,
		Primaries:       primaries,
		Secondaries:     secondaries,
		Cells:           cells,
	}
	matrix.Plot = render.Titled("Group to Group Collaboration",
		"Collaboration Across Organizations", matrix.caption(),
		render.HeatGrid(primaries, secondaries, matrix.plotCells()))
	return matrix, nil
}

// sortedSet returns the sorted members of a string set.
func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
