package skeleton

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/graph"
	"github.com/matzehuels/rcd/pkg/markov"
	"github.com/matzehuels/rcd/pkg/observability"
)

// rules are the algorithm-specific parts of the elimination loop.
type rules interface {
	pruner(s *state) Pruner
	removable(s *state, v int) bool

	// reprunes reports whether a variable must be pruned again after its
	// boundary shrinks.
	reprunes() bool
}

// state is owned by a single run and never shared.
type state struct {
	algorithm string
	test      citest.Test
	data      data.Dataset
	mb        *markov.Matrix
	g         *graph.Working
	log       *log.Logger

	reprune   bool   // clear pruned when a boundary shrinks
	pruned    []bool // neighbors checked against the current boundary
	dirty     []bool // boundary or neighborhood changed since the last check
	removable []bool // result of the last removability check
}

func newState(algorithm string, test citest.Test, d data.Dataset, mb *markov.Matrix, logger *log.Logger) *state {
	n := d.NumVars()
	s := &state{
		algorithm: algorithm,
		test:      test,
		data:      d,
		mb:        mb,
		g:         graph.NewWorking(n, mb.Graph()),
		log:       logger,
		pruned:    make([]bool, n),
		dirty:     make([]bool, n),
		removable: make([]bool, n),
	}
	for v := range s.dirty {
		s.dirty[v] = true
	}
	return s
}

// boundaries returns the symmetrized initial Markov boundary matrix.
func boundaries(ctx context.Context, test citest.Test, d data.Dataset, opts Options) (*markov.Matrix, error) {
	var mb *markov.Matrix
	if opts.Boundaries != nil {
		mb = opts.Boundaries.Clone()
	} else {
		finder := opts.finder()
		name := markov.NameOf(finder)
		observability.Learn().OnBoundaryStart(ctx, name, d.NumVars())
		start := time.Now()
		m, err := finder.Find(ctx, d, test)
		observability.Learn().OnBoundaryComplete(ctx, name, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("markov boundaries: %w", err)
		}
		mb = m
	}
	if mb.NumVars() != d.NumVars() {
		return nil, fmt.Errorf("%w: %d boundaries for %d variables", ErrBoundarySize, mb.NumVars(), d.NumVars())
	}
	mb.Symmetrize()
	return mb, nil
}

// run eliminates every variable, one per iteration, and returns the
// committed skeleton.
func (s *state) run(ctx context.Context, r rules) (*graph.Graph, error) {
	n := s.g.NumVars()
	s.reprune = r.reprunes()
	observability.Learn().OnLearnStart(ctx, s.algorithm, n)
	start := time.Now()

	for s.g.NumActive() > 0 {
		if err := ctx.Err(); err != nil {
			observability.Learn().OnLearnComplete(ctx, s.algorithm, 0, 0, time.Since(start), err)
			return nil, err
		}
		v := s.selectVar(r)
		s.eliminate(v)
		observability.Learn().OnEliminate(ctx, s.algorithm, v, s.g.NumActive())
	}

	g := s.g.Finalize()
	observability.Learn().OnLearnComplete(ctx, s.algorithm, g.EdgeCount(), queries(s.test), time.Since(start), nil)
	return g, nil
}

// selectVar returns the first active variable, by (boundary size, index),
// that passes the removability check. Each candidate is pruned before it is
// checked.
func (s *state) selectVar(r rules) int {
	cands := s.g.ActiveVars()
	slices.SortStableFunc(cands, func(a, b int) int {
		return cmp.Compare(s.mb.Size(a), s.mb.Size(b))
	})

	for _, v := range cands {
		if !s.pruned[v] {
			s.prune(v, r.pruner(s))
		}
		if s.dirty[v] {
			s.removable[v] = r.removable(s, v)
			s.dirty[v] = false
		}
		if s.removable[v] {
			return v
		}
	}
	s.log.Warn("no removable variable, eliminating smallest boundary", "var", cands[0], "active", len(cands))
	return cands[0]
}

func (s *state) prune(v int, p Pruner) {
	s.pruned[v] = true
	for _, w := range p.Removable(v, s.g.Neighbors(v), s.mb.Boundary(v)) {
		if s.g.RemoveEdge(v, w) {
			s.dirty[v], s.dirty[w] = true, true
			s.log.Debug("pruned edge", "var", v, "neighbor", w)
		}
	}
}

// eliminate commits v's edges, drops v from every boundary, and removes
// co-parent relations between members of MB(v) that no longer hold.
func (s *state) eliminate(v int) {
	mbv := s.mb.Boundary(v)
	committed := s.g.RemoveVariable(v)
	for _, u := range mbv {
		s.mb.Remove(u, v)
		s.mb.Remove(v, u)
		s.shrunk(u)
	}

	for i, y := range mbv {
		for _, z := range mbv[i+1:] {
			if !s.mb.Contains(y, z) {
				continue
			}
			if s.test.Independent(y, z, minus(s.mb.Boundary(y), z), s.data) {
				s.mb.Remove(y, z)
				s.mb.Remove(z, y)
				s.g.RemoveEdge(y, z)
				s.shrunk(y)
				s.shrunk(z)
				s.log.Debug("dropped co-parents", "var", v, "y", y, "z", z)
			}
		}
	}

	s.log.Debug("eliminated", "var", v, "boundary", len(mbv), "neighbors", len(committed))
}

// shrunk records that MB(u) lost a member.
func (s *state) shrunk(u int) {
	s.dirty[u] = true
	if s.reprune {
		s.pruned[u] = false
	}
}

func queries(t citest.Test) int64 {
	if m, ok := t.(*citest.Memo); ok {
		return m.Stats().Queries
	}
	return 0
}
