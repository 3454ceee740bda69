package skeleton

import (
	"context"

	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/graph"
)

// LearnLMarvel learns the skeleton with L-MARVEL. opts.Finder defaults to
// markov.Greedy; opts.CliqueNumber is ignored.
func LearnLMarvel(ctx context.Context, test citest.Test, d data.Dataset, opts Options) (*graph.Graph, error) {
	if err := validate(test, d); err != nil {
		return nil, err
	}
	mb, err := boundaries(ctx, test, d, opts)
	if err != nil {
		return nil, err
	}
	return newState(AlgorithmLMarvel, test, d, mb, opts.logger()).run(ctx, lmarvel{})
}

type lmarvel struct{}

// pruner searches every subset of the boundary.
func (lmarvel) pruner(s *state) Pruner {
	return Pruner{Test: s.test, Data: s.data, MaxSize: -1, Exclusion: -1}
}

// reprunes is false: every subset of a shrunken MB(v)\{w} was already a
// subset of the boundary searched at the first visit, and neighbors only
// shrink.
func (lmarvel) reprunes() bool { return false }

// removable fails if some neighbor Y and other boundary member W become
// independent once v is added to a conditioning set S ⊆ MB(v)\{Y,W}. That
// means v is a collider between them, so v has a child and is not safe to
// marginalize out.
func (lmarvel) removable(s *state, v int) bool {
	mb := s.mb.Boundary(v)
	for _, y := range s.g.Neighbors(v) {
		for _, w := range mb {
			if w == y || (w < y && s.g.HasEdge(v, w)) {
				// Pairs of two neighbors are checked once, with y < w.
				continue
			}
			rest := minus(mb, y, w)
			blocked := eachSubsetUpTo(rest, -1, func(sub []int) bool {
				z := append(append(make([]int, 0, len(sub)+1), sub...), v)
				return s.test.Independent(y, w, z, s.data)
			})
			if blocked {
				return false
			}
		}
	}
	return true
}
