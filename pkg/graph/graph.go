package graph

import (
	"slices"
)

// Edge is an undirected edge with U < V.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

// NewEdge returns the edge between a and b with endpoints ordered.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{U: a, V: b}
}

// Graph is an undirected simple graph over the variables 0..n-1.
//
// Graphs returned by learners are immutable by convention; only the
// constructor helpers mutate them. There are never self-loops or duplicate
// edges.
type Graph struct {
	adj   [][]int // sorted neighbor lists
	edges int
}

// New returns an empty graph with n variables.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{adj: make([][]int, n)}
}

// FromEdges builds a graph with n variables and the given edges.
// Self-loops, duplicates and out-of-range endpoints are ignored.
func FromEdges(n int, edges []Edge) *Graph {
	g := New(n)
	for _, e := range edges {
		g.AddEdge(e.U, e.V)
	}
	return g
}

// AddEdge adds u–v and reports whether the graph changed.
func (g *Graph) AddEdge(u, v int) bool {
	if u == v || !g.valid(u) || !g.valid(v) {
		return false
	}
	i, found := slices.BinarySearch(g.adj[u], v)
	if found {
		return false
	}
	g.adj[u] = slices.Insert(g.adj[u], i, v)
	j, _ := slices.BinarySearch(g.adj[v], u)
	g.adj[v] = slices.Insert(g.adj[v], j, u)
	g.edges++
	return true
}

// NumVars returns the number of variables.
func (g *Graph) NumVars() int { return len(g.adj) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.edges }

// HasEdge reports whether u–v is present.
func (g *Graph) HasEdge(u, v int) bool {
	if !g.valid(u) || !g.valid(v) {
		return false
	}
	_, found := slices.BinarySearch(g.adj[u], v)
	return found
}

// Neighbors returns the neighbors of v in ascending order.
// The returned slice should not be modified.
func (g *Graph) Neighbors(v int) []int {
	if !g.valid(v) {
		return nil
	}
	return g.adj[v]
}

// Degree returns the number of neighbors of v.
func (g *Graph) Degree(v int) int { return len(g.Neighbors(v)) }

// Edges returns all edges sorted by (U, V).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for u, ns := range g.adj {
		for _, v := range ns {
			if u < v {
				out = append(out, Edge{U: u, V: v})
			}
		}
	}
	return out
}

// Equal reports whether both graphs have the same variables and edges.
func (g *Graph) Equal(other *Graph) bool {
	if g.NumVars() != other.NumVars() || g.edges != other.edges {
		return false
	}
	for v := range g.adj {
		if !slices.Equal(g.adj[v], other.adj[v]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	c := &Graph{adj: make([][]int, len(g.adj)), edges: g.edges}
	for v, ns := range g.adj {
		c.adj[v] = slices.Clone(ns)
	}
	return c
}

func (g *Graph) valid(v int) bool { return v >= 0 && v < len(g.adj) }
