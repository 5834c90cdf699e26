// Package query models Viva Insights flexible query exports as in-memory
// column tables.
package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// TotalsColumn is the name of the constant grouping column added by WithTotals.
const TotalsColumn = "Total"

var (
	// ErrEmptyQuery is returned when a query holds no rows or no columns.
	ErrEmptyQuery = errors.New("query: empty query")
	// ErrColumnNotFound is returned when a named column does not exist.
	ErrColumnNotFound = errors.New("query: column not found")
	// ErrNoDateColumn is returned when no recognized date column is present.
	ErrNoDateColumn = errors.New("query: no date column found")
)

// Kind identifies the inferred value type of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Column is a single named column with a uniform kind. Exactly one of the
// value slices is populated, matching Kind. Missing cells are represented
// as NaN for numbers, the zero time for times and "" for strings.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Numbers []float64
	Times   []time.Time
}

// StringColumn builds a string-kinded column.
func StringColumn(name string, values []string) *Column {
	return &Column{Name: name, Kind: KindString, Strings: values}
}

// NumberColumn builds a number-kinded column.
func NumberColumn(name string, values []float64) *Column {
	return &Column{Name: name, Kind: KindNumber, Numbers: values}
}

// TimeColumn builds a time-kinded column.
func TimeColumn(name string, values []time.Time) *Column {
	return &Column{Name: name, Kind: KindTime, Times: values}
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindNumber:
		return len(c.Numbers)
	case KindTime:
		return len(c.Times)
	default:
		return len(c.Strings)
	}
}

// Value returns the cell at row i formatted as a string. Missing cells
// format as "".
func (c *Column) Value(i int) string {
	switch c.Kind {
	case KindNumber:
		v := c.Numbers[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case KindTime:
		t := c.Times[i]
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	default:
		return c.Strings[i]
	}
}

// Distinct returns the number of distinct non-missing values in the column.
func (c *Column) Distinct() int {
	switch c.Kind {
	case KindNumber:
		seen := make(map[float64]struct{})
		for _, v := range c.Numbers {
			if !math.IsNaN(v) {
				seen[v] = struct{}{}
			}
		}
		return len(seen)
	case KindTime:
		seen := make(map[time.Time]struct{})
		for _, t := range c.Times {
			if !t.IsZero() {
				seen[t] = struct{}{}
			}
		}
		return len(seen)
	default:
		seen := make(map[string]struct{})
		for _, s := range c.Strings {
			if s != "" {
				seen[s] = struct{}{}
			}
		}
		return len(seen)
	}
}

// slice returns a copy of the column restricted to the given rows.
func (c *Column) slice(rows []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case KindNumber:
		out.Numbers = make([]float64, len(rows))
		for i, r := range rows {
			out.Numbers[i] = c.Numbers[r]
		}
	case KindTime:
		out.Times = make([]time.Time, len(rows))
		for i, r := range rows {
			out.Times[i] = c.Times[r]
		}
	default:
		out.Strings = make([]string, len(rows))
		for i, r := range rows {
			out.Strings[i] = c.Strings[r]
		}
	}
	return out
}

// Query is an in-memory query result with column-major storage. Queries are
// immutable; transforming methods return new queries sharing no mutable
// state with the receiver.
type Query struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// New builds a query from columns. All columns must have the same length
// and distinct names.
func New(cols ...*Column) (*Query, error) {
	if len(cols) == 0 {
		return nil, ErrEmptyQuery
	}
	q := &Query{
		cols:  cols,
		index: make(map[string]int, len(cols)),
		rows:  cols[0].Len(),
	}
	for i, c := range cols {
		if c.Len() != q.rows {
			return nil, fmt.Errorf("query: column %q has %d rows, want %d", c.Name, c.Len(), q.rows)
		}
		if _, dup := q.index[c.Name]; dup {
			return nil, fmt.Errorf("query: duplicate column %q", c.Name)
		}
		q.index[c.Name] = i
	}
	return q, nil
}

// Rows returns the number of rows in the query.
func (q *Query) Rows() int {
	return q.rows
}

// Header returns the column names in order.
func (q *Query) Header() []string {
	names := make([]string, len(q.cols))
	for i, c := range q.cols {
		names[i] = c.Name
	}
	return names
}

// Records returns all rows formatted as strings, in column order.
func (q *Query) Records() [][]string {
	recs := make([][]string, q.rows)
	for i := 0; i < q.rows; i++ {
		row := make([]string, len(q.cols))
		for j, c := range q.cols {
			row[j] = c.Value(i)
		}
		recs[i] = row
	}
	return recs
}

// HasColumn reports whether a column with the given name exists.
func (q *Query) HasColumn(name string) bool {
	_, ok := q.index[name]
	return ok
}

// Column returns the named column.
func (q *Query) Column(name string) (*Column, error) {
	i, ok := q.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return q.cols[i], nil
}

// Strings returns the values of a string-kinded column.
func (q *Query) Strings(name string) ([]string, error) {
	c, err := q.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindString {
		return nil, fmt.Errorf("query: column %q is %s, want string", name, c.Kind)
	}
	return c.Strings, nil
}

// Numbers returns the values of a number-kinded column.
func (q *Query) Numbers(name string) ([]float64, error) {
	c, err := q.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindNumber {
		return nil, fmt.Errorf("query: column %q is %s, want number", name, c.Kind)
	}
	return c.Numbers, nil
}

// Times returns the values of a time-kinded column.
func (q *Query) Times(name string) ([]time.Time, error) {
	c, err := q.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindTime {
		return nil, fmt.Errorf("query: column %q is %s, want time", name, c.Kind)
	}
	return c.Times, nil
}

// Filter returns a query holding only the rows for which keep returns true.
func (q *Query) Filter(keep func(row int) bool) *Query {
	var rows []int
	for i := 0; i < q.rows; i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	cols := make([]*Column, len(q.cols))
	for i, c := range q.cols {
		cols[i] = c.slice(rows)
	}
	out, _ := New(cols...)
	return out
}

// Select returns a query holding only the named columns, in the given order.
func (q *Query) Select(names ...string) (*Query, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := q.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// WithColumn returns a query with an extra column appended. The column must
// match the query's row count and must not collide with an existing name.
func (q *Query) WithColumn(c *Column) (*Query, error) {
	if c.Len() != q.rows {
		return nil, fmt.Errorf("query: column %q has %d rows, want %d", c.Name, c.Len(), q.rows)
	}
	cols := make([]*Column, 0, len(q.cols)+1)
	cols = append(cols, q.cols...)
	cols = append(cols, c)
	return New(cols...)
}

// WithTotals returns a query with a constant grouping column named "Total"
// appended, so that ungrouped aggregations can reuse the grouped code path.
func (q *Query) WithTotals() (*Query, error) {
	if q.HasColumn(TotalsColumn) {
		return nil, fmt.Errorf("query: column %q already exists", TotalsColumn)
	}
	values := make([]string, q.rows)
	for i := range values {
		values[i] = TotalsColumn
	}
	return q.WithColumn(StringColumn(TotalsColumn, values))
}
