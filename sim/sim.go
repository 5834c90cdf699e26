// Package sim generates deterministic simulated query exports with the
// same shapes as real Viva Insights data, for demos and tests.
package sim

import "time"

// anchor is the first metric week of every generated query. Weekly
// exports place dates on Sundays.
var anchor = time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)

// Options control the size and seed of the generated queries. The zero
// value gives 200 persons over 52 weeks with seed 42.
type Options struct {
	Persons int
	Weeks   int
	Seed    int64
}

func (o Options) withDefaults() Options {
	if o.Persons <= 0 {
		o.Persons = 200
	}
	if o.Weeks <= 0 {
		o.Weeks = 52
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// profile is one simulated organization with its weekly metric baselines.
type profile struct {
	name     string
	function string
	collab   float64
	meetings float64
	emails   float64
	after    float64
}

var profiles = []profile{
	{"Engineering", "Product", 22, 9, 55, 2.5},
	{"Sales", "Field", 28, 14, 90, 4.0},
	{"Marketing", "Corporate", 24, 11, 75, 3.0},
	{"Finance", "Corporate", 20, 8, 60, 2.0},
	{"HR", "Corporate", 18, 7, 50, 1.5},
	{"Operations", "Field", 21, 9, 65, 2.2},
}
