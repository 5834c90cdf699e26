package vivainsights

import (
	"math"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/microsoft/vivainsights-go/query"
)

// pageRankDamping matches the conventional damping factor.
const pageRankDamping = 0.85

// edge is one undirected edge with its summed weight.
type edge struct {
	from, to int64
	w        float64
}

// Network is an undirected weighted person-to-person collaboration graph
// with an organizational attribute on every vertex.
type Network struct {
	HRVar string

	names     []string
	attrs     []string
	idOf      map[string]int64
	edges     []edge
	comm      []int
	g         *simple.WeightedUndirectedGraph
	dg        *simple.WeightedDirectedGraph
	once      sync.Once
	degree    []int
	wdegree   []float64
	between   []float64
	closeness []float64
	eigen     []float64
	pagerank  []float64
}

// NetworkP2P builds the collaboration graph of a person-to-person query.
// Vertices come from the primary and secondary collaborator columns, with
// the hrvar attribute taken from the first row mentioning the person.
// Edge weights default to one per row (WithWeightColumn overrides) and
// repeated pairs accumulate; self-loops and weightless rows are skipped.
func NetworkP2P(q *query.Query, opts ...Option) (*Network, error) {
	cfg := newConfig(opts)
	primary, err := q.Strings("PrimaryCollaborator_PersonId")
	if err != nil {
		return nil, err
	}
	secondary, err := q.Strings("SecondaryCollaborator_PersonId")
	if err != nil {
		return nil, err
	}
	pattr, err := q.Strings("PrimaryCollaborator_" + cfg.hrvar)
	if err != nil {
		return nil, err
	}
	sattr, err := q.Strings("SecondaryCollaborator_" + cfg.hrvar)
	if err != nil {
		return nil, err
	}
	var weights []float64
	if cfg.weightColumn != "" {
		weights, err = q.Numbers(cfg.weightColumn)
		if err != nil {
			return nil, err
		}
	}

	n := &Network{HRVar: cfg.hrvar, idOf: make(map[string]int64)}
	add := func(person, attr string) {
		if person == "" {
			return
		}
		if _, ok := n.idOf[person]; ok {
			return
		}
		n.idOf[person] = int64(len(n.names))
		n.names = append(n.names, person)
		n.attrs = append(n.attrs, attr)
	}
	for i := range primary {
		add(primary[i], pattr[i])
	}
	for i := range secondary {
		add(secondary[i], sattr[i])
	}

	type pair struct{ a, b int64 }
	sums := make(map[pair]float64)
	for i := range primary {
		if primary[i] == "" || secondary[i] == "" || primary[i] == secondary[i] {
			continue
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
			if math.IsNaN(w) {
				continue
			}
		}
		a, b := n.idOf[primary[i]], n.idOf[secondary[i]]
		if b < a {
			a, b = b, a
		}
		sums[pair{a, b}] += w
	}

	n.g = simple.NewWeightedUndirectedGraph(0, 0)
	n.dg = simple.NewWeightedDirectedGraph(0, 0)
	for i := range n.names {
		n.g.AddNode(simple.Node(int64(i)))
		n.dg.AddNode(simple.Node(int64(i)))
	}
	n.edges = make([]edge, 0, len(sums))
	for p, w := range sums {
		n.edges = append(n.edges, edge{p.a, p.b, w})
	}
	sort.Slice(n.edges, func(i, j int) bool {
		if n.edges[i].from != n.edges[j].from {
			return n.edges[i].from < n.edges[j].from
		}
		return n.edges[i].to < n.edges[j].to
	})
	for _, e := range n.edges {
		f, t := simple.Node(e.from), simple.Node(e.to)
		n.g.SetWeightedEdge(simple.WeightedEdge{F: f, T: t, W: e.w})
		n.dg.SetWeightedEdge(simple.WeightedEdge{F: f, T: t, W: e.w})
		n.dg.SetWeightedEdge(simple.WeightedEdge{F: t, T: f, W: e.w})
	}

	if cfg.communities && len(n.names) > 0 {
		n.detectCommunities(cfg.resolution)
	}
	return n, nil
}

// Nodes returns the vertex count.
func (n *Network) Nodes() int { return len(n.names) }

// Edges returns the distinct edge count.
func (n *Network) Edges() int { return len(n.edges) }

// detectCommunities runs Louvain modularisation with a fixed seed so
// repeated calls agree. Communities are numbered by their smallest vertex.
func (n *Network) detectCommunities(resolution float64) {
	rg := community.Modularize(n.g, resolution, rand.NewSource(1))
	comms := rg.Communities()
	minID := func(nodes []graph.Node) int64 {
		m := nodes[0].ID()
		for _, node := range nodes[1:] {
			if node.ID() < m {
				m = node.ID()
			}
		}
		return m
	}
	sort.Slice(comms, func(i, j int) bool { return minID(comms[i]) < minID(comms[j]) })

	n.comm = make([]int, len(n.names))
	for ci, nodes := range comms {
		for _, node := range nodes {
			n.comm[node.ID()] = ci
		}
	}
}

// VertexTable lists every vertex with its attribute, plus its cluster when
// community detection ran.
func (n *Network) VertexTable() *query.Query {
	cols := []*query.Column{
		query.StringColumn("node_id", append([]string(nil), n.names...)),
		query.StringColumn(n.HRVar, append([]string(nil), n.attrs...)),
	}
	if n.comm != nil {
		vals := make([]float64, len(n.comm))
		for i, c := range n.comm {
			vals[i] = float64(c)
		}
		cols = append(cols, query.NumberColumn("cluster", vals))
	}
	q, _ := query.New(cols...)
	return q
}

// GroupCounts counts vertices per attribute value, split by cluster when
// community detection ran.
func (n *Network) GroupCounts() *query.Query {
	type key struct {
		group string
		comm  int
	}
	counts := make(map[key]int)
	for i, attr := range n.attrs {
		c := -1
		if n.comm != nil {
			c = n.comm[i]
		}
		counts[key{attr, c}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].group != keys[j].group {
			return keys[i].group < keys[j].group
		}
		return keys[i].comm < keys[j].comm
	})

	groups := make([]string, len(keys))
	clusters := make([]float64, len(keys))
	ns := make([]float64, len(keys))
	for i, k := range keys {
		groups[i] = k.group
		clusters[i] = float64(k.comm)
		ns[i] = float64(counts[k])
	}
	cols := []*query.Column{query.StringColumn(n.HRVar, groups)}
	if n.comm != nil {
		cols = append(cols, query.NumberColumn("cluster", clusters))
	}
	cols = append(cols, query.NumberColumn("n", ns))
	q, _ := query.New(cols...)
	return q
}

// CentralityRow carries the centrality measures of one vertex, or the
// group means in a grouped table.
type CentralityRow struct {
	PersonID       string
	Group          string
	Community      int
	N              int
	Degree         float64
	WeightedDegree float64
	Betweenness    float64
	Closeness      float64
	Eigenvector    float64
	PageRank       float64
}

// CentralityTable lists centrality measures per vertex, or averaged per
// attribute group.
type CentralityTable struct {
	HRVar       string
	Grouped     bool
	Communities bool
	Rows        []CentralityRow
}

// Header returns the column names of the tabular form.
func (t *CentralityTable) Header() []string {
	var h []string
	if t.Grouped {
		h = []string{t.HRVar, "n"}
	} else {
		h = []string{"node_id", t.HRVar}
		if t.Communities {
			h = append(h, "cluster")
		}
	}
	return append(h, "degree", "weighted_degree", "betweenness", "closeness", "eigenvector", "pagerank")
}

// Records returns the rows of the tabular form.
func (t *CentralityTable) Records() [][]string {
	recs := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		var rec []string
		if t.Grouped {
			rec = []string{r.Group, strconv.Itoa(r.N)}
		} else {
			rec = []string{r.PersonID, r.Group}
			if t.Communities {
				rec = append(rec, strconv.Itoa(r.Community))
			}
		}
		rec = append(rec,
			formatFloat(r.Degree), formatFloat(r.WeightedDegree), formatFloat(r.Betweenness),
			formatFloat(r.Closeness), formatFloat(r.Eigenvector), formatFloat(r.PageRank))
		recs = append(recs, rec)
	}
	return recs
}

// Summary computes the centrality measures of every vertex. The heavy
// shortest-path work runs once and is cached on the Network.
func (n *Network) Summary() *CentralityTable {
	n.once.Do(n.computeCentralities)
	t := &CentralityTable{HRVar: n.HRVar, Communities: n.comm != nil}
	for i, name := range n.names {
		c := 0
		if n.comm != nil {
			c = n.comm[i]
		}
		t.Rows = append(t.Rows, CentralityRow{
			PersonID:       name,
			Group:          n.attrs[i],
			Community:      c,
			Degree:         float64(n.degree[i]),
			WeightedDegree: n.wdegree[i],
			Betweenness:    n.between[i],
			Closeness:      n.closeness[i],
			Eigenvector:    n.eigen[i],
			PageRank:       n.pagerank[i],
		})
	}
	return t
}

// GroupSummary averages the centrality measures per attribute value.
func (n *Network) GroupSummary() *CentralityTable {
	per := n.Summary()
	type agg struct {
		n   int
		sum [6]float64
	}
	aggs := make(map[string]*agg)
	for _, r := range per.Rows {
		a := aggs[r.Group]
		if a == nil {
			a = &agg{}
			aggs[r.Group] = a
		}
		a.n++
		for i, v := range [6]float64{r.Degree, r.WeightedDegree, r.Betweenness, r.Closeness, r.Eigenvector, r.PageRank} {
			a.sum[i] += v
		}
	}
	groups := make([]string, 0, len(aggs))
	for g := range aggs {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	t := &CentralityTable{HRVar: n.HRVar, Grouped: true}
	for _, g := range groups {
		a := aggs[g]
		d := float64(a.n)
		t.Rows = append(t.Rows, CentralityRow{
			Group:          g,
			N:              a.n,
			Degree:         a.sum[0] / d,
			WeightedDegree: a.sum[1] / d,
			Betweenness:    a.sum[2] / d,
			Closeness:      a.sum[3] / d,
			Eigenvector:    a.sum[4] / d,
			PageRank:       a.sum[5] / d,
		})
	}
	return t
}

func (n *Network) computeCentralities() {
	size := len(n.names)
	n.degree = make([]int, size)
	n.wdegree = make([]float64, size)
	for _, e := range n.edges {
		n.degree[e.from]++
		n.degree[e.to]++
		n.wdegree[e.from] += e.w
		n.wdegree[e.to] += e.w
	}

	n.between = make([]float64, size)
	n.closeness = make([]float64, size)
	n.pagerank = make([]float64, size)
	if size > 0 {
		for id, v := range network.Betweenness(n.g) {
			n.between[id] = v
		}
		for id, v := range network.Closeness(n.g, path.DijkstraAllPaths(n.g)) {
			n.closeness[id] = v
		}
		for id, v := range network.PageRank(n.dg, pageRankDamping, 1e-6) {
			n.pagerank[id] = v
		}
	}
	n.eigen = n.eigenvector()
}

// eigenvector computes eigenvector centrality by power iteration on the
// weighted adjacency, rescaling to a unit maximum each round.
func (n *Network) eigenvector() []float64 {
	size := len(n.names)
	vec := make([]float64, size)
	for i := range vec {
		vec[i] = 1
	}
	if len(n.edges) == 0 {
		return vec
	}
	next := make([]float64, size)
	for iter := 0; iter < 100; iter++ {
		for i := range next {
			next[i] = 0
		}
		for _, e := range n.edges {
			next[e.to] += vec[e.from] * e.w
			next[e.from] += vec[e.to] * e.w
		}
		peak := 0.0
		for _, v := range next {
			if v > peak {
				peak = v
			}
		}
		if peak == 0 {
			break
		}
		delta := 0.0
		for i := range next {
			next[i] /= peak
			delta += math.Abs(next[i] - vec[i])
		}
		copy(vec, next)
		if delta < 1e-6 {
			break
		}
	}
	return vec
}
