package sim

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/microsoft/vivainsights-go/query"
)

// holidayEvery spaces the simulated shutdown weeks: every 26th week the
// population's collaboration drops to a quarter of its usual level.
const holidayEvery = 26

// PersonQuery generates a person query: one row per person per week, with
// GUID person IDs, organizational attributes, a hire date and weekly
// metrics drawn from per-organization baselines plus noise. The same
// options always produce the same query.
func PersonQuery(opt Options) *query.Query {
	opt = opt.withDefaults()
	r := rand.New(rand.NewSource(opt.Seed))

	rows := opt.Persons * opt.Weeks
	ids := make([]string, 0, rows)
	dates := make([]time.Time, 0, rows)
	orgs := make([]string, 0, rows)
	levels := make([]string, 0, rows)
	functions := make([]string, 0, rows)
	hired := make([]time.Time, 0, rows)
	collab := make([]float64, 0, rows)
	meetings := make([]float64, 0, rows)
	emails := make([]float64, 0, rows)
	after := make([]float64, 0, rows)

	for p := 0; p < opt.Persons; p++ {
		id, _ := uuid.NewRandomFromReader(r)
		prof := profiles[p%len(profiles)]
		level := "Level " + strconv.Itoa(1+r.Intn(6))
		hireDate := anchor.AddDate(0, 0, -(30 + r.Intn(15*365)))
		factor := 0.8 + 0.4*r.Float64()

		for w := 0; w < opt.Weeks; w++ {
			week := 1.0
			if (w+1)%holidayEvery == 0 {
				week = 0.25
			}
			ids = append(ids, id.String())
			dates = append(dates, anchor.AddDate(0, 0, 7*w))
			orgs = append(orgs, prof.name)
			levels = append(levels, level)
			functions = append(functions, prof.function)
			hired = append(hired, hireDate)
			collab = append(collab, positive(week*prof.collab*factor+r.NormFloat64()*3))
			meetings = append(meetings, positive(week*prof.meetings*factor+r.NormFloat64()*1.5))
			emails = append(emails, math.Round(positive(week*prof.emails*factor+r.NormFloat64()*10)))
			after = append(after, positive(week*prof.after*factor+r.NormFloat64()*0.8))
		}
	}

	q, err := query.New(
		query.StringColumn("PersonId", ids),
		query.TimeColumn("MetricDate", dates),
		query.StringColumn("Organization", orgs),
		query.StringColumn("LevelDesignation", levels),
		query.StringColumn("FunctionType", functions),
		query.TimeColumn("HireDate", hired),
		query.NumberColumn("Collaboration_hours", collab),
		query.NumberColumn("Meeting_hours", meetings),
		query.NumberColumn("Emails_sent", emails),
		query.NumberColumn("After_hours_collaboration_hours", after),
	)
	if err != nil {
		panic(err)
	}
	return q
}

// positive clamps a noisy draw at zero.
func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
