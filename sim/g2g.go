package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/microsoft/vivainsights-go/query"
)

// G2GQuery generates a group-to-group query: per week, one row for every
// ordered organization pair plus a Within Group row and an
// Other_Collaborators row per primary organization, with a simulated
// Meeting_Count. Within-group counts dominate and cross-group counts fall
// off with organizational distance.
func G2GQuery(opt Options) *query.Query {
	opt = opt.withDefaults()
	r := rand.New(rand.NewSource(opt.Seed))

	orgs := make([]string, len(profiles))
	for i, p := range profiles {
		orgs[i] = p.name
	}

	var (
		dates []time.Time
		prim  []string
		sec   []string
		count []float64
	)
	for w := 0; w < opt.Weeks; w++ {
		date := anchor.AddDate(0, 0, 7*w)
		for i, p := range orgs {
			for j, s := range orgs {
				label := s
				base := 3 + 9/float64(1+abs(i-j))
				if i == j {
					label = "Within Group"
					base = 40
				}
				dates = append(dates, date)
				prim = append(prim, p)
				sec = append(sec, label)
				count = append(count, math.Round(base*(0.8+0.4*r.Float64())))
			}
			dates = append(dates, date)
			prim = append(prim, p)
			sec = append(sec, "Other_Collaborators")
			count = append(count, math.Round(5*(0.8+0.4*r.Float64())))
		}
	}

	q, err := query.New(
		query.TimeColumn("MetricDate", dates),
		query.StringColumn("PrimaryCollaborator_Organization", prim),
		query.StringColumn("SecondaryCollaborator_Organization", sec),
		query.NumberColumn("Meeting_Count", count),
	)
	if err != nil {
		panic(err)
	}
	return q
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
