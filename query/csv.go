package query

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microsoft/vivainsights-go/internal/logger"
)

// nonAlnum matches every character that is replaced with an underscore when
// cleaning imported column names.
var nonAlnum = regexp.MustCompile(`[^a-zA-Z0-9]`)

// timeLayouts are the date formats produced by Viva Insights query exports.
var timeLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	time.RFC3339,
}

// CleanName normalizes an imported column name by trimming surrounding
// whitespace and replacing every other non-alphanumeric character with an
// underscore, so that "Collaboration hours" becomes "Collaboration_hours".
func CleanName(name string) string {
	return nonAlnum.ReplaceAllString(strings.TrimSpace(name), "_")
}

// ImportCSV reads a query export from a .csv file, cleaning column names and
// inferring per-column kinds.
func ImportCSV(path string) (*Query, error) {
	if !strings.EqualFold(".csv", filepath.Ext(path)) {
		return nil, fmt.Errorf("query: import %q: only .csv files are supported", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("query: import %q: %w", path, err)
	}
	defer f.Close()
	q, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("query: import %q: %w", path, err)
	}
	logger.Debug("query imported", "path", path, "rows", q.Rows(), "columns", len(q.cols))
	return q, nil
}

// ReadCSV reads a query export from r. The first record is the header;
// header names are cleaned with CleanName. Column kinds are inferred from
// the values: a column where every non-empty cell parses as a number is
// numeric, then dates are tried, and everything else stays a string.
func ReadCSV(r io.Reader) (*Query, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyQuery
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	raw := make([][]string, len(header))
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		for j := range header {
			raw[j] = append(raw[j], strings.TrimSpace(rec[j]))
		}
		row++
	}
	if row == 0 {
		return nil, ErrEmptyQuery
	}

	cols := make([]*Column, len(header))
	for j, name := range header {
		cols[j] = inferColumn(CleanName(name), raw[j])
	}
	return New(cols...)
}

// inferColumn decides the kind of a raw value slice and builds the typed
// column. Empty cells become NaN, the zero time or "" depending on kind.
func inferColumn(name string, raw []string) *Column {
	numeric, timey := true, false
	nonEmpty := 0
	var layout string
	for _, v := range raw {
		if v == "" {
			continue
		}
		if nonEmpty == 0 {
			layout, timey = matchLayout(v)
		}
		nonEmpty++
		if numeric {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
			}
		}
		if timey {
			if _, err := time.Parse(layout, v); err != nil {
				timey = false
			}
		}
		if !numeric && !timey {
			break
		}
	}

	switch {
	case nonEmpty > 0 && numeric:
		values := make([]float64, len(raw))
		for i, v := range raw {
			if v == "" {
				values[i] = math.NaN()
				continue
			}
			values[i], _ = strconv.ParseFloat(v, 64)
		}
		return NumberColumn(name, values)
	case nonEmpty > 0 && timey:
		values := make([]time.Time, len(raw))
		for i, v := range raw {
			if v == "" {
				continue
			}
			values[i], _ = time.Parse(layout, v)
		}
		return TimeColumn(name, values)
	default:
		return StringColumn(name, raw)
	}
}

// matchLayout returns the first known date layout that parses v.
func matchLayout(v string) (string, bool) {
	for _, l := range timeLayouts {
		if _, err := time.Parse(l, v); err == nil {
			return l, true
		}
	}
	return "", false
}
