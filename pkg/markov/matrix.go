package markov

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/rcd/pkg/graph"
)

// Matrix is the n×n Markov boundary relation: Contains(v, u) means u is in
// the estimated boundary of v. Estimates from noisy tests may be asymmetric
// until [Matrix.Symmetrize] is called.
type Matrix struct {
	n   int
	rel [][]bool
}

// NewMatrix returns an empty relation over n variables.
func NewMatrix(n int) *Matrix {
	rel := make([][]bool, n)
	for v := range rel {
		rel[v] = make([]bool, n)
	}
	return &Matrix{n: n, rel: rel}
}

// FromBoundaries builds a matrix from per-variable boundary lists.
// Self references and out-of-range entries are ignored.
func FromBoundaries(bs [][]int) *Matrix {
	m := NewMatrix(len(bs))
	for v, b := range bs {
		for _, u := range b {
			m.Set(v, u)
		}
	}
	return m
}

// NumVars returns n.
func (m *Matrix) NumVars() int { return m.n }

// Set adds u to the boundary of v.
func (m *Matrix) Set(v, u int) {
	if v == u || !m.valid(v) || !m.valid(u) {
		return
	}
	m.rel[v][u] = true
}

// Remove drops u from the boundary of v. It does not touch v's membership
// in u's boundary.
func (m *Matrix) Remove(v, u int) {
	if m.valid(v) && m.valid(u) {
		m.rel[v][u] = false
	}
}

// Contains reports whether u is in the boundary of v.
func (m *Matrix) Contains(v, u int) bool {
	return m.valid(v) && m.valid(u) && m.rel[v][u]
}

// Boundary returns the boundary of v in ascending order.
func (m *Matrix) Boundary(v int) []int {
	var out []int
	for u, in := range m.rel[v] {
		if in {
			out = append(out, u)
		}
	}
	return out
}

// Size returns |MB(v)|.
func (m *Matrix) Size(v int) int {
	n := 0
	for _, in := range m.rel[v] {
		if in {
			n++
		}
	}
	return n
}

// Symmetrize makes the relation symmetric by union:
// MB(v) := MB(v) ∪ {u : v ∈ MB(u)}.
func (m *Matrix) Symmetrize() {
	for v := range m.n {
		for u := v + 1; u < m.n; u++ {
			if m.rel[v][u] || m.rel[u][v] {
				m.rel[v][u], m.rel[u][v] = true, true
			}
		}
	}
}

// IsSymmetric reports whether u ∈ MB(v) ⇔ v ∈ MB(u) for all pairs.
func (m *Matrix) IsSymmetric() bool {
	for v := range m.n {
		for u := v + 1; u < m.n; u++ {
			if m.rel[v][u] != m.rel[u][v] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.n)
	for v := range m.rel {
		copy(c.rel[v], m.rel[v])
	}
	return c
}

// Equal reports whether both relations are identical.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.n != o.n {
		return false
	}
	for v := range m.rel {
		if !slices.Equal(m.rel[v], o.rel[v]) {
			return false
		}
	}
	return true
}

// Graph returns the undirected graph with an edge u–v whenever either
// direction of the relation holds. For exact boundaries this is the moral
// graph.
func (m *Matrix) Graph() *graph.Graph {
	g := graph.New(m.n)
	for v := range m.n {
		for u := v + 1; u < m.n; u++ {
			if m.rel[v][u] || m.rel[u][v] {
				g.AddEdge(v, u)
			}
		}
	}
	return g
}

type matrixJSON struct {
	N          int     `json:"n"`
	Boundaries [][]int `json:"boundaries"`
}

// MarshalJSON encodes the matrix as per-variable boundary lists.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	out := matrixJSON{N: m.n, Boundaries: make([][]int, m.n)}
	for v := range m.n {
		out.Boundaries[v] = m.Boundary(v)
		if out.Boundaries[v] == nil {
			out.Boundaries[v] = []int{}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (m *Matrix) UnmarshalJSON(b []byte) error {
	var in matrixJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if len(in.Boundaries) != in.N {
		return fmt.Errorf("markov matrix: %d boundaries for n = %d", len(in.Boundaries), in.N)
	}
	*m = *FromBoundaries(in.Boundaries)
	return nil
}

func (m *Matrix) valid(v int) bool { return v >= 0 && v < m.n }
