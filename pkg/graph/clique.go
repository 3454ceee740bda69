package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// CliqueNumber returns the size of the largest clique in g, using gonum's
// Bron–Kerbosch maximal clique enumeration. An empty graph has clique
// number 0; any non-empty graph has at least 1.
func CliqueNumber(g *Graph) int {
	if g.NumVars() == 0 {
		return 0
	}
	best := 0
	for _, c := range topo.BronKerbosch(toGonum(g)) {
		if len(c) > best {
			best = len(c)
		}
	}
	return best
}

func toGonum(g *Graph) *simple.UndirectedGraph {
	ug := simple.NewUndirectedGraph()
	for v := range g.NumVars() {
		ug.AddNode(simple.Node(v))
	}
	for _, e := range g.Edges() {
		ug.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}
	return ug
}
