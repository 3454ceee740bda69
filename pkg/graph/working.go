package graph

import (
	"slices"
)

// Working is the mutable skeleton a learner shrinks while eliminating
// variables.
//
// It holds undirected edges among the still-active variables, plus the
// edges committed to the result when a variable is removed. Edges are only
// ever removed or committed, never added, so EdgeCount is non-increasing.
type Working struct {
	adj      [][]int // working edges between active variables, sorted
	active   []bool
	nActive  int
	final    *Graph
	removals int
}

// NewWorking returns a working graph over n variables seeded with the edges
// of seed (typically the symmetrized Markov boundary graph). A nil seed
// starts from the complete graph.
func NewWorking(n int, seed *Graph) *Working {
	w := &Working{
		adj:     make([][]int, n),
		active:  make([]bool, n),
		nActive: n,
		final:   New(n),
	}
	for v := range n {
		w.active[v] = true
		if seed == nil {
			w.adj[v] = make([]int, 0, n-1)
			for u := range n {
				if u != v {
					w.adj[v] = append(w.adj[v], u)
				}
			}
			continue
		}
		w.adj[v] = slices.Clone(seed.Neighbors(v))
	}
	return w
}

// NumVars returns the size of the variable universe.
func (w *Working) NumVars() int { return len(w.adj) }

// RemoveEdge deletes the working edge u–v. It is idempotent and reports
// whether an edge was actually removed.
func (w *Working) RemoveEdge(u, v int) bool {
	if !w.HasEdge(u, v) {
		return false
	}
	w.adj[u] = deleteSorted(w.adj[u], v)
	w.adj[v] = deleteSorted(w.adj[v], u)
	w.removals++
	return true
}

// RemoveVariable commits every remaining working edge incident to v to the
// final skeleton and detaches v. It returns the committed neighbors.
// Removing an inactive variable does nothing.
func (w *Working) RemoveVariable(v int) []int {
	if !w.Active(v) {
		return nil
	}
	committed := w.adj[v]
	for _, u := range committed {
		w.final.AddEdge(v, u)
		w.adj[u] = deleteSorted(w.adj[u], v)
	}
	w.adj[v] = nil
	w.active[v] = false
	w.nActive--
	return committed
}

// HasEdge reports whether the working edge u–v is present.
func (w *Working) HasEdge(u, v int) bool {
	if !w.Active(u) || !w.Active(v) {
		return false
	}
	_, found := slices.BinarySearch(w.adj[u], v)
	return found
}

// Neighbors returns the working neighbors of v in ascending order.
func (w *Working) Neighbors(v int) []int {
	if !w.Active(v) {
		return nil
	}
	return slices.Clone(w.adj[v])
}

// Degree returns the number of working neighbors of v.
func (w *Working) Degree(v int) int {
	if !w.Active(v) {
		return 0
	}
	return len(w.adj[v])
}

// EdgeCount returns working plus committed edges.
func (w *Working) EdgeCount() int {
	deg := 0
	for v, ns := range w.adj {
		if w.active[v] {
			deg += len(ns)
		}
	}
	return deg/2 + w.final.EdgeCount()
}

// Removals returns how many working edges RemoveEdge has deleted.
func (w *Working) Removals() int { return w.removals }

// Active reports whether v has not been removed yet.
func (w *Working) Active(v int) bool { return v >= 0 && v < len(w.active) && w.active[v] }

// NumActive returns the number of active variables.
func (w *Working) NumActive() int { return w.nActive }

// ActiveVars returns the active variables in ascending order.
func (w *Working) ActiveVars() []int {
	out := make([]int, 0, w.nActive)
	for v, a := range w.active {
		if a {
			out = append(out, v)
		}
	}
	return out
}

// Finalize commits any remaining working edges and returns the skeleton.
// The Working graph must not be used afterwards.
func (w *Working) Finalize() *Graph {
	for v := range w.adj {
		for _, u := range w.adj[v] {
			w.final.AddEdge(v, u)
		}
	}
	return w.final
}

func deleteSorted(s []int, v int) []int {
	i, found := slices.BinarySearch(s, v)
	if !found {
		return s
	}
	return slices.Delete(s, i, i+1)
}
