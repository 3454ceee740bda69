package dag

import (
	"errors"
	"slices"

	"github.com/matzehuels/rcd/pkg/graph"
)

var (
	// ErrInvalidNode is returned by [DAG.AddEdge] when an endpoint is outside
	// 0..n-1. [DAG.DSeparated] panics with it on a bad index.
	ErrInvalidNode = errors.New("node index out of range")

	// ErrSelfLoop is returned by [DAG.AddEdge] when From == To.
	ErrSelfLoop = errors.New("self-loop")

	// ErrDuplicateEdge is returned by [DAG.AddEdge] when the edge already
	// exists in either direction.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrGraphHasCycle is returned by [DAG.Validate] and [DAG.TopologicalOrder]
	// when a directed cycle is detected. Cycles are detected using depth-first
	// search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed edge From → To, meaning From is a direct cause of To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// DAG is a directed graph over the variables 0..n-1 used as causal ground
// truth. AddEdge rejects self-loops and duplicates but not cycles; call
// Validate after construction.
//
// The zero value is an empty graph with no variables. DAG is not safe for
// concurrent mutation; concurrent reads are fine.
type DAG struct {
	n        int
	edges    []Edge
	children [][]int
	parents  [][]int
}

// New creates a DAG with n variables and no edges.
func New(n int) *DAG {
	if n < 0 {
		n = 0
	}
	return &DAG{
		n:        n,
		children: make([][]int, n),
		parents:  make([][]int, n),
	}
}

// AddEdge adds the directed edge e.From → e.To.
func (d *DAG) AddEdge(e Edge) error {
	if e.From < 0 || e.From >= d.n || e.To < 0 || e.To >= d.n {
		return ErrInvalidNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if d.HasEdge(e.From, e.To) || d.HasEdge(e.To, e.From) {
		return ErrDuplicateEdge
	}
	d.edges = append(d.edges, e)
	d.children[e.From] = insertSorted(d.children[e.From], e.To)
	d.parents[e.To] = insertSorted(d.parents[e.To], e.From)
	return nil
}

// RemoveEdge removes from → to if present.
func (d *DAG) RemoveEdge(from, to int) {
	if !d.HasEdge(from, to) {
		return
	}
	d.edges = slices.DeleteFunc(d.edges, func(e Edge) bool { return e.From == from && e.To == to })
	d.children[from] = slices.DeleteFunc(d.children[from], func(c int) bool { return c == to })
	d.parents[to] = slices.DeleteFunc(d.parents[to], func(p int) bool { return p == from })
}

// HasEdge reports whether from → to is present.
func (d *DAG) HasEdge(from, to int) bool {
	if from < 0 || from >= d.n {
		return false
	}
	_, ok := slices.BinarySearch(d.children[from], to)
	return ok
}

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of variables.
func (d *DAG) NodeCount() int { return d.n }

// EdgeCount returns the number of directed edges.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the direct effects of v in ascending order.
// The returned slice should not be modified.
func (d *DAG) Children(v int) []int { return d.children[v] }

// Parents returns the direct causes of v in ascending order.
// The returned slice should not be modified.
func (d *DAG) Parents(v int) []int { return d.parents[v] }

// InDegree returns the number of parents of v.
func (d *DAG) InDegree(v int) int { return len(d.parents[v]) }

// OutDegree returns the number of children of v.
func (d *DAG) OutDegree(v int) int { return len(d.children[v]) }

// Sources returns variables without parents, ascending.
func (d *DAG) Sources() []int {
	var out []int
	for v := range d.n {
		if len(d.parents[v]) == 0 {
			out = append(out, v)
		}
	}
	return out
}

// Sinks returns variables without children, ascending.
func (d *DAG) Sinks() []int {
	var out []int
	for v := range d.n {
		if len(d.children[v]) == 0 {
			out = append(out, v)
		}
	}
	return out
}

// Validate returns ErrGraphHasCycle if the graph is not acyclic.
// It runs in O(N+E) time.
func (d *DAG) Validate() error {
	return d.detectCycles()
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, d.n)
	var hasCycle bool

	var dfs func(v int)
	dfs = func(v int) {
		color[v] = gray
		for _, c := range d.children[v] {
			switch color[c] {
			case white:
				dfs(c)
			case gray:
				hasCycle = true
			}
			if hasCycle {
				return
			}
		}
		color[v] = black
	}

	for v := range d.n {
		if color[v] == white {
			dfs(v)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}

// TopologicalOrder returns the variables ordered so that every parent comes
// before its children. Ties are broken by smallest index (Kahn's algorithm
// with a sorted frontier), so the order is deterministic.
func (d *DAG) TopologicalOrder() ([]int, error) {
	indeg := make([]int, d.n)
	for v := range d.n {
		indeg[v] = len(d.parents[v])
	}
	var ready []int
	for v := range d.n {
		if indeg[v] == 0 {
			ready = append(ready, v)
		}
	}

	order := make([]int, 0, d.n)
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)
		for _, c := range d.children[v] {
			indeg[c]--
			if indeg[c] == 0 {
				ready = insertSorted(ready, c)
			}
		}
	}
	if len(order) != d.n {
		return nil, ErrGraphHasCycle
	}
	return order, nil
}

// Skeleton returns the undirected graph obtained by dropping directions.
func (d *DAG) Skeleton() *graph.Graph {
	g := graph.New(d.n)
	for _, e := range d.edges {
		g.AddEdge(e.From, e.To)
	}
	return g
}

// Moral returns the moral graph: the skeleton plus an edge between every
// pair of parents sharing a child. Its neighborhoods are the Markov
// boundaries of a faithful distribution.
func (d *DAG) Moral() *graph.Graph {
	g := d.Skeleton()
	for v := range d.n {
		ps := d.parents[v]
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				g.AddEdge(ps[i], ps[j])
			}
		}
	}
	return g
}

// MarkovBoundary returns parents, children and the children's other parents
// of v, ascending.
func (d *DAG) MarkovBoundary(v int) []int {
	seen := make(map[int]bool)
	for _, p := range d.parents[v] {
		seen[p] = true
	}
	for _, c := range d.children[v] {
		seen[c] = true
		for _, p := range d.parents[c] {
			if p != v {
				seen[p] = true
			}
		}
	}
	out := make([]int, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

func insertSorted(s []int, v int) []int {
	i, found := slices.BinarySearch(s, v)
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}
