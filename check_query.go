package vivainsights

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/microsoft/vivainsights-go/query"
)

// checkMaxUnique caps the distinct values a column may hold and still be
// reported as an HR attribute by CheckQuery.
const checkMaxUnique = 200

// CheckQuery describes the shape of a query in plain sentences: distinct
// employee count, date coverage, estimated organizational attributes and
// the active employee count when an IsActive flag is present.
func CheckQuery(q *query.Query, opts ...Option) (string, error) {
	cfg := newConfig(opts)
	idCol, err := q.Column(cfg.idColumn)
	if err != nil {
		return "", err
	}

	parts := []string{
		fmt.Sprintf("There are %d employees in this dataset.", idCol.Distinct()),
	}

	if text, terr := q.DateRangeText(); terr == nil {
		parts = append(parts, text)
	} else {
		parts = append(parts, "No date column was identified in the data.")
	}

	attrs := lo.Filter(q.HRAttributes(checkMaxUnique), func(name string, _ int) bool {
		switch name {
		case cfg.idColumn, "MetricDate", "Date":
			return false
		}
		return true
	})
	attrText := fmt.Sprintf("There are %d (estimated) HR attributes in the data:", len(attrs))
	if len(attrs) > 0 {
		quoted := lo.Map(attrs, func(a string, _ int) string { return "`" + a + "`" })
		attrText += "\n" + strings.Join(quoted, ", ")
	}
	parts = append(parts, attrText)

	if c, cerr := q.Column("IsActive"); cerr == nil {
		active := make(map[string]struct{})
		for i := 0; i < c.Len(); i++ {
			on := false
			switch c.Kind {
			case query.KindNumber:
				on = c.Numbers[i] == 1
			default:
				v := c.Value(i)
				on = strings.EqualFold(v, "true") || v == "1"
			}
			if on {
				active[idCol.Value(i)] = struct{}{}
			}
		}
		parts = append(parts, fmt.Sprintf("There are %d active employees out of all in the dataset.", len(active)))
	} else {
		parts = append(parts, "The `IsActive` flag is not present in the data.")
	}

	return strings.Join(parts, "\n\n"), nil
}
