package sim

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/microsoft/vivainsights-go/query"
)

// P2POptions control the person-to-person edgelist generator. The zero
// value gives a 300-node small-world network with 5 neighbours per side,
// 5% rewiring and seed 42.
type P2POptions struct {
	Size int
	Nei  int
	P    float64
	Seed int64
}

func (o P2POptions) withDefaults() P2POptions {
	if o.Size <= 0 {
		o.Size = 300
	}
	if o.Nei <= 0 {
		o.Nei = 5
	}
	if o.P <= 0 {
		o.P = 0.05
	}
	if o.Seed == 0 {
		o.Seed = 42
	}
	return o
}

// P2PQuery generates a person-to-person edgelist on a Watts-Strogatz
// small-world network, with simulated Organization, LevelDesignation and
// City attributes per collaborator and a constant StrongTieScore of one.
func P2PQuery(opt P2POptions) *query.Query {
	opt = opt.withDefaults()
	r := rand.New(rand.NewSource(opt.Seed))
	edges := wattsStrogatz(r, opt.Size, opt.Nei, opt.P)

	n := len(edges)
	primID := make([]string, 0, n)
	secID := make([]string, 0, n)
	primOrg := make([]string, 0, n)
	secOrg := make([]string, 0, n)
	primLevel := make([]string, 0, n)
	secLevel := make([]string, 0, n)
	primCity := make([]string, 0, n)
	secCity := make([]string, 0, n)
	ties := make([]float64, 0, n)

	for _, e := range edges {
		a, b := e[0], e[1]
		primID = append(primID, fmt.Sprintf("SIM_ID_%d", a))
		secID = append(secID, fmt.Sprintf("SIM_ID_%d", b))
		primOrg = append(primOrg, simOrg(a))
		secOrg = append(secOrg, simOrg(b))
		primLevel = append(primLevel, simLevel(a))
		secLevel = append(secLevel, simLevel(b))
		primCity = append(primCity, simCity(a))
		secCity = append(secCity, simCity(b))
		ties = append(ties, 1)
	}

	q, err := query.New(
		query.StringColumn("PrimaryCollaborator_PersonId", primID),
		query.StringColumn("SecondaryCollaborator_PersonId", secID),
		query.StringColumn("PrimaryCollaborator_Organization", primOrg),
		query.StringColumn("SecondaryCollaborator_Organization", secOrg),
		query.StringColumn("PrimaryCollaborator_LevelDesignation", primLevel),
		query.StringColumn("SecondaryCollaborator_LevelDesignation", secLevel),
		query.StringColumn("PrimaryCollaborator_City", primCity),
		query.StringColumn("SecondaryCollaborator_City", secCity),
		query.NumberColumn("StrongTieScore", ties),
	)
	if err != nil {
		panic(err)
	}
	return q
}

// wattsStrogatz builds a ring lattice joining each node to nei neighbours
// per side, then rewires each edge's far endpoint with probability p.
// Edges are kept unique and loop-free.
func wattsStrogatz(r *rand.Rand, size, nei int, p float64) [][2]int {
	type pair [2]int
	seen := make(map[pair]struct{})
	var edges [][2]int
	norm := func(a, b int) pair {
		if a > b {
			a, b = b, a
		}
		return pair{a, b}
	}
	for i := 0; i < size; i++ {
		for k := 1; k <= nei; k++ {
			j := (i + k) % size
			if i == j {
				continue
			}
			key := norm(i, j)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, [2]int{key[0], key[1]})
		}
	}

	for idx := range edges {
		if r.Float64() >= p {
			continue
		}
		a := edges[idx][0]
		for tries := 0; tries < 10; tries++ {
			b := r.Intn(size)
			if b == a {
				continue
			}
			key := norm(a, b)
			if _, dup := seen[key]; dup {
				continue
			}
			delete(seen, norm(edges[idx][0], edges[idx][1]))
			seen[key] = struct{}{}
			edges[idx] = [2]int{key[0], key[1]}
			break
		}
	}
	return edges
}

// simOrg derives an organization name from a node index.
func simOrg(x int) string {
	switch {
	case x%7 == 0:
		return "Org A"
	case x%6 == 0:
		return "Org B"
	case x%5 == 0:
		return "Org C"
	case x%4 == 0:
		return "Org D"
	case x%3 == 0:
		return "Org E"
	case x < 100:
		return "Org F"
	case x%2 == 0:
		return "Org G"
	default:
		return "Org H"
	}
}

// simLevel derives a level from the leading digit of a node index.
func simLevel(x int) string {
	return "Level " + strconv.Itoa(x)[:1]
}

// simCity derives a city from a node index.
func simCity(x int) string {
	switch {
	case x%3 == 0:
		return "City A"
	case x%2 == 0:
		return "City B"
	default:
		return "City C"
	}
}
