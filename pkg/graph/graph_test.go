package graph

import (
	"math"
	"slices"
	"testing"
)

func TestGraphAddEdge(t *testing.T) {
	g := New(3)
	if !g.AddEdge(2, 0) {
		t.Error("AddEdge(2, 0) should add")
	}
	if g.AddEdge(0, 2) {
		t.Error("AddEdge(0, 2) is a duplicate")
	}
	if g.AddEdge(1, 1) {
		t.Error("self-loops must be rejected")
	}
	if g.AddEdge(0, 5) {
		t.Error("out-of-range endpoints must be rejected")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge(0, 2) || !g.HasEdge(2, 0) {
		t.Error("edge should be symmetric")
	}
	if got := g.Edges(); !slices.Equal(got, []Edge{{0, 2}}) {
		t.Errorf("Edges() = %v, want [{0 2}]", got)
	}
}

func TestGraphEqualAndClone(t *testing.T) {
	a := FromEdges(4, []Edge{{0, 1}, {2, 3}})
	b := FromEdges(4, []Edge{{3, 2}, {1, 0}})
	if !a.Equal(b) {
		t.Error("graphs with the same edges should be equal")
	}
	c := a.Clone()
	c.AddEdge(1, 2)
	if a.Equal(c) {
		t.Error("Clone should not share adjacency")
	}
}

func TestWorkingComplete(t *testing.T) {
	w := NewWorking(4, nil)
	if w.EdgeCount() != 6 {
		t.Errorf("EdgeCount() = %d, want 6", w.EdgeCount())
	}
	if got := w.Neighbors(0); !slices.Equal(got, []int{1, 2, 3}) {
		t.Errorf("Neighbors(0) = %v, want [1 2 3]", got)
	}
}

func TestWorkingLifecycle(t *testing.T) {
	seed := FromEdges(4, []Edge{{0, 1}, {1, 2}, {2, 3}, {0, 2}})
	w := NewWorking(4, seed)

	if !w.RemoveEdge(0, 2) {
		t.Error("RemoveEdge(0, 2) should remove")
	}
	if w.RemoveEdge(2, 0) {
		t.Error("RemoveEdge must be idempotent")
	}
	if w.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", w.EdgeCount())
	}

	committed := w.RemoveVariable(0)
	if !slices.Equal(committed, []int{1}) {
		t.Errorf("RemoveVariable(0) committed %v, want [1]", committed)
	}
	if w.Active(0) || w.NumActive() != 3 {
		t.Error("variable 0 should be inactive")
	}
	if w.HasEdge(0, 1) {
		t.Error("committed edges are no longer working edges")
	}
	if w.EdgeCount() != 3 {
		t.Errorf("EdgeCount() after commit = %d, want 3", w.EdgeCount())
	}
	if w.RemoveVariable(0) != nil {
		t.Error("removing an inactive variable should do nothing")
	}
	if !slices.Equal(w.ActiveVars(), []int{1, 2, 3}) {
		t.Errorf("ActiveVars() = %v", w.ActiveVars())
	}

	w.RemoveEdge(2, 3)
	for _, v := range []int{1, 2, 3} {
		w.RemoveVariable(v)
	}
	g := w.Finalize()
	want := FromEdges(4, []Edge{{0, 1}, {1, 2}})
	if !g.Equal(want) {
		t.Errorf("Finalize() = %v, want %v", g.Edges(), want.Edges())
	}
	if w.Removals() != 2 {
		t.Errorf("Removals() = %d, want 2", w.Removals())
	}
}

func TestWorkingFinalizeCommitsRemaining(t *testing.T) {
	w := NewWorking(3, nil)
	w.RemoveEdge(0, 1)
	g := w.Finalize()
	if g.EdgeCount() != 2 || g.HasEdge(0, 1) {
		t.Errorf("Finalize() = %v, want [{0 2} {1 2}]", g.Edges())
	}
}

func TestCliqueNumber(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
		want  int
	}{
		{"empty", 0, nil, 0},
		{"isolated", 3, nil, 1},
		{"path", 3, []Edge{{0, 1}, {1, 2}}, 2},
		{"triangle", 4, []Edge{{0, 1}, {1, 2}, {0, 2}, {2, 3}}, 3},
		{"k4", 4, []Edge{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CliqueNumber(FromEdges(tt.n, tt.edges)); got != tt.want {
				t.Errorf("CliqueNumber() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	truth := FromEdges(4, []Edge{{0, 1}, {1, 2}, {2, 3}})
	learned := FromEdges(4, []Edge{{0, 1}, {1, 2}, {0, 3}})

	s := Score(truth, learned)
	if s.TruePositives != 2 || s.FalsePositives != 1 || s.FalseNegatives != 1 {
		t.Errorf("Score() counts = %+v", s)
	}
	if math.Abs(s.F1-2.0/3.0) > 1e-12 {
		t.Errorf("F1 = %v, want 2/3", s.F1)
	}
	if got := Score(truth, truth).F1; got != 1 {
		t.Errorf("Score(truth, truth).F1 = %v, want 1", got)
	}
	if got := Score(New(3), New(3)).F1; got != 1 {
		t.Errorf("empty graphs F1 = %v, want 1", got)
	}
	if got := Score(truth, New(4)).F1; got != 0 {
		t.Errorf("empty learned F1 = %v, want 0", got)
	}
}
