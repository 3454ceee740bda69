package skeleton

import (
	"context"
	"fmt"

	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/graph"
)

// LearnRSLW learns the skeleton with RSL-W, which assumes the true graph is
// diamond-free with clique number at most opts.CliqueNumber. A zero clique
// number is estimated as the clique number of the boundary graph, which is
// an upper bound on the skeleton's. The bound is not checked; a bound that is
// too small gives a degraded skeleton but the run still terminates.
func LearnRSLW(ctx context.Context, test citest.Test, d data.Dataset, opts Options) (*graph.Graph, error) {
	if err := validate(test, d); err != nil {
		return nil, err
	}
	if opts.CliqueNumber < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCliqueNumber, opts.CliqueNumber)
	}
	mb, err := boundaries(ctx, test, d, opts)
	if err != nil {
		return nil, err
	}

	k := opts.CliqueNumber
	logger := opts.logger()
	if k == 0 {
		k = graph.CliqueNumber(mb.Graph())
		logger.Debug("estimated clique number", "k", k)
	}
	return newState(AlgorithmRSLW, test, d, mb, logger).run(ctx, rslw{k: k})
}

type rslw struct{ k int }

// pruner caps subsets at k and adds the exclusion search with |T| <= k-1,
// since a removable variable shares at most k-1 children with a co-parent.
func (r rslw) pruner(s *state) Pruner {
	return Pruner{Test: s.test, Data: s.data, MaxSize: r.k, Exclusion: r.k - 1}
}

// reprunes is true: the exclusion search conditions on MB(v)\{w}\T with
// |T| <= k-1, and those sets change as MB(v) shrinks.
func (rslw) reprunes() bool { return true }

// removable requires every pair Y, W in MB(v) to stay dependent given the
// rest of the boundary plus v, with up to k-2 further members left out.
func (r rslw) removable(s *state, v int) bool {
	mb := s.mb.Boundary(v)
	maxT := max(0, r.k-2)
	for i, y := range mb {
		for _, w := range mb[i+1:] {
			rest := minus(mb, y, w)
			separated := eachSubsetUpTo(rest, maxT, func(t []int) bool {
				z := append(minus(rest, t...), v)
				return s.test.Independent(y, w, z, s.data)
			})
			if separated {
				return false
			}
		}
	}
	return true
}
