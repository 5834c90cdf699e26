package vivainsights

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/microsoft/vivainsights-go/query"
)

// TenureResult summarises employee tenure as of the last date in the query
// window. The mean, max and band count are computed over the distinct
// tenure values rather than per person, so clusters hired on the same day
// weigh once.
type TenureResult struct {
	MeanYears float64
	MaxYears  float64
	MaxTenure float64
	OddPeople []string
	OddBands  int
	EndDate   time.Time
	Years     map[string]float64

	cleaned *query.Query
	flagged *query.Query
}

// Text returns the diagnostic message.
func (r *TenureResult) Text() string {
	return fmt.Sprintf(
		"The mean tenure is %.1f years.\nThe max tenure is %.1f.\nThere are %d employees with a tenure greater than %v years.",
		r.MeanYears, r.MaxYears, r.OddBands, r.MaxTenure)
}

// Cleaned returns the query without rows of persons at or above the
// tenure ceiling.
func (r *TenureResult) Cleaned() *query.Query { return r.cleaned }

// Flagged returns only the rows of persons at or above the tenure ceiling.
func (r *TenureResult) Flagged() *query.Query { return r.flagged }

// IdentifyTenure computes each person's tenure in years from the hire date
// column (default HireDate, WithHireDateColumn) to the latest date in the
// query, and flags persons whose tenure reaches the ceiling (default 40
// years, WithMaxTenure). Persons with no hire date are skipped.
func IdentifyTenure(q *query.Query, opts ...Option) (*TenureResult, error) {
	cfg := newConfig(opts)
	hire, err := q.Times(cfg.hireColumn)
	if err != nil {
		return nil, err
	}
	dateCol, err := resolveDateColumn(q, cfg)
	if err != nil {
		return nil, err
	}
	dates, err := q.Times(dateCol)
	if err != nil {
		return nil, err
	}
	ids, err := q.Strings(cfg.idColumn)
	if err != nil {
		return nil, err
	}

	var end time.Time
	for _, d := range dates {
		if d.After(end) {
			end = d
		}
	}
	if end.IsZero() {
		return nil, query.ErrNoDateColumn
	}

	years := make(map[string]float64)
	for i, id := range ids {
		if hire[i].IsZero() {
			continue
		}
		years[id] = end.Sub(hire[i]).Hours() / 24 / 365
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("vivainsights: column %q holds no dates", cfg.hireColumn)
	}

	bandSet := make(map[float64]struct{}, len(years))
	for _, y := range years {
		bandSet[y] = struct{}{}
	}
	bands := make([]float64, 0, len(bandSet))
	for y := range bandSet {
		bands = append(bands, y)
	}

	oddBands := 0
	for _, y := range bands {
		if y >= cfg.maxTenure {
			oddBands++
		}
	}
	var odd []string
	for id, y := range years {
		if y >= cfg.maxTenure {
			odd = append(odd, id)
		}
	}
	sort.Strings(odd)

	flag := func(row int) bool {
		y, ok := years[ids[row]]
		return ok && y >= cfg.maxTenure
	}
	return &TenureResult{
		MeanYears: stat.Mean(bands, nil),
		MaxYears:  lo.Max(bands),
		MaxTenure: cfg.maxTenure,
		OddPeople: odd,
		OddBands:  oddBands,
		EndDate:   end,
		Years:     years,
		cleaned:   q.Filter(func(row int) bool { return !flag(row) }),
		flagged:   q.Filter(flag),
	}, nil
}
