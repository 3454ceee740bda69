package dag

import (
	"errors"
	"slices"
	"testing"
)

func build(t *testing.T, n int, edges ...Edge) *DAG {
	t.Helper()
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestAddEdgeErrors(t *testing.T) {
	g := New(3)
	_ = g.AddEdge(Edge{From: 0, To: 1})

	tests := []struct {
		name string
		e    Edge
		want error
	}{
		{"out of range", Edge{From: 0, To: 3}, ErrInvalidNode},
		{"negative", Edge{From: -1, To: 0}, ErrInvalidNode},
		{"self loop", Edge{From: 2, To: 2}, ErrSelfLoop},
		{"duplicate", Edge{From: 0, To: 1}, ErrDuplicateEdge},
		{"reverse duplicate", Edge{From: 1, To: 0}, ErrDuplicateEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddEdge(tt.e); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge(%v) = %v, want %v", tt.e, err, tt.want)
			}
		})
	}
}

func TestRemoveEdge(t *testing.T) {
	g := build(t, 3, Edge{0, 1}, Edge{1, 2})
	g.RemoveEdge(0, 1)
	g.RemoveEdge(0, 1)
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.HasEdge(0, 1) || len(g.Parents(1)) != 0 {
		t.Error("edge 0→1 should be gone")
	}
}

func TestValidate(t *testing.T) {
	g := build(t, 3, Edge{0, 1}, Edge{1, 2})
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	_ = g.AddEdge(Edge{2, 0})
	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() = %v, want ErrGraphHasCycle", err)
	}
	if _, err := g.TopologicalOrder(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("TopologicalOrder() = %v, want ErrGraphHasCycle", err)
	}
}

func TestTopologicalOrder(t *testing.T) {
	g := build(t, 4, Edge{3, 1}, Edge{1, 0}, Edge{2, 0})
	order, err := g.TopologicalOrder()
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 3, 1, 0}
	if !slices.Equal(order, want) {
		t.Errorf("TopologicalOrder() = %v, want %v", order, want)
	}
}

func TestMarkovBoundary(t *testing.T) {
	// 0 → 2 ← 1, 2 → 3, 4 isolated
	g := build(t, 5, Edge{0, 2}, Edge{1, 2}, Edge{2, 3})
	tests := []struct {
		v    int
		want []int
	}{
		{0, []int{1, 2}},
		{1, []int{0, 2}},
		{2, []int{0, 1, 3}},
		{3, []int{2}},
		{4, []int{}},
	}
	for _, tt := range tests {
		if got := g.MarkovBoundary(tt.v); !slices.Equal(got, tt.want) {
			t.Errorf("MarkovBoundary(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
	moral := g.Moral()
	for _, tt := range tests {
		if got := moral.Neighbors(tt.v); len(got) != len(tt.want) {
			t.Errorf("Moral().Neighbors(%d) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestDSeparated(t *testing.T) {
	// 0 → 1 → 2 (chain), 3 → 2 (collider at 2), 2 → 4
	g := build(t, 5, Edge{0, 1}, Edge{1, 2}, Edge{3, 2}, Edge{2, 4})

	tests := []struct {
		x, y int
		z    []int
		want bool
	}{
		{0, 2, nil, false},
		{0, 2, []int{1}, true},
		{0, 3, nil, true},
		{0, 3, []int{2}, false},
		{0, 3, []int{4}, false}, // descendant of collider opens it
		{0, 3, []int{1, 2}, true},
		{0, 4, []int{2}, true},
		{1, 3, []int{4}, false},
		{4, 4, nil, false},
		{0, 4, []int{0}, true},
	}
	for _, tt := range tests {
		if got := g.DSeparated(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("DSeparated(%d, %d, %v) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
		}
		if tt.x != tt.y {
			if got := g.DSeparated(tt.y, tt.x, tt.z); got != tt.want {
				t.Errorf("DSeparated(%d, %d, %v) = %v, want %v (symmetry)", tt.y, tt.x, tt.z, got, tt.want)
			}
		}
	}
}

func TestDSeparatedInvalidNode(t *testing.T) {
	g := build(t, 3, Edge{0, 1}, Edge{1, 2})

	tests := []struct {
		name string
		x, y int
		z    []int
	}{
		{"x negative", -1, 2, nil},
		{"y too large", 0, 3, nil},
		{"conditioning node too large", 0, 2, []int{1, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok || !errors.Is(err, ErrInvalidNode) {
					t.Errorf("panic = %v, want ErrInvalidNode", r)
				}
			}()
			g.DSeparated(tt.x, tt.y, tt.z)
		})
	}
}
