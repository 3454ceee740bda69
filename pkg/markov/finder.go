// Package markov computes Markov boundaries, the minimal sets that make a
// variable conditionally independent of every other variable.
//
// Boundary discovery is pluggable through [Finder]. [Greedy] works with any
// CI test; [Precision] is a one-shot Gaussian estimate from the inverse
// correlation matrix; [FromDAG] reads exact boundaries off a known graph.
package markov

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
)

// ErrSingular is returned by [Precision] when the correlation matrix cannot
// be inverted.
var ErrSingular = errors.New("correlation matrix is singular")

// Finder computes the Markov boundary matrix of a dataset.
type Finder interface {
	Find(ctx context.Context, d data.Dataset, t citest.Test) (*Matrix, error)
}

// FinderFunc adapts a plain function to [Finder].
type FinderFunc func(ctx context.Context, d data.Dataset, t citest.Test) (*Matrix, error)

// Find calls f.
func (f FinderFunc) Find(ctx context.Context, d data.Dataset, t citest.Test) (*Matrix, error) {
	return f(ctx, d, t)
}

// Greedy finds each boundary by backward elimination. For every v it starts
// from all other variables and visits candidates u in ascending order,
// dropping u whenever v ⊥ u | S\{u}. Under faithfulness the result is the
// exact, minimal boundary. It needs n(n-1) tests.
type Greedy struct{}

// Name returns "greedy".
func (Greedy) Name() string { return "greedy" }

// Find runs the elimination for every variable. The context is checked
// between variables.
func (Greedy) Find(ctx context.Context, d data.Dataset, t citest.Test) (*Matrix, error) {
	n := d.NumVars()
	m := NewMatrix(n)
	for v := range n {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, u := range Shrink(v, others(n, v), d, t) {
			m.Set(v, u)
		}
	}
	return m, nil
}

// Shrink removes from candidates every u with v ⊥ u | S\{u}, where S is the
// current candidate set, visiting candidates in the given order.
func Shrink(v int, candidates []int, d data.Dataset, t citest.Test) []int {
	s := append([]int(nil), candidates...)
	for _, u := range candidates {
		rest := without(s, u)
		if t.Independent(v, u, rest, d) {
			s = rest
		}
	}
	return s
}

// Precision estimates all boundaries at once from the inverse correlation
// matrix: u ∈ MB(v) iff the full-order partial correlation of u and v is
// significant under a Fisher-Z test. Only valid for linear Gaussian data;
// the CI test argument is ignored.
type Precision struct {
	Alpha float64
}

// Name returns "precision".
func (Precision) Name() string { return "precision" }

// Find computes the boundary matrix. d must be a *data.Matrix.
func (p Precision) Find(ctx context.Context, d data.Dataset, _ citest.Test) (*Matrix, error) {
	m, ok := d.(*data.Matrix)
	if !ok {
		return nil, citest.ErrNotMatrix
	}
	n := m.NumVars()
	out := NewMatrix(n)
	if n < 2 {
		return out, nil
	}
	dof := float64(m.NumSamples() - (n - 2) - 3)
	if dof <= 0 {
		return nil, fmt.Errorf("%d samples for %d variables: %w", m.NumSamples(), n, citest.ErrTooFewSamples)
	}

	var prec mat.Dense
	if err := prec.Inverse(m.Correlation()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for v := range n {
		for u := v + 1; u < n; u++ {
			r := -prec.At(v, u) / math.Sqrt(prec.At(v, v)*prec.At(u, u))
			r = math.Max(-1+1e-10, math.Min(1-1e-10, r))
			z := math.Abs(0.5*math.Log((1+r)/(1-r))) * math.Sqrt(dof)
			if 2*(1-distuv.UnitNormal.CDF(z)) <= p.Alpha {
				out.Set(v, u)
				out.Set(u, v)
			}
		}
	}
	return out, nil
}

// FromDAG returns a Finder that reads exact boundaries off g, ignoring the
// dataset and test. It stands in for a perfect-oracle boundary search.
func FromDAG(g *dag.DAG) Finder {
	return FinderFunc(func(ctx context.Context, _ data.Dataset, _ citest.Test) (*Matrix, error) {
		m := NewMatrix(g.NodeCount())
		for v := range g.NodeCount() {
			for _, u := range g.MarkovBoundary(v) {
				m.Set(v, u)
			}
		}
		return m, nil
	})
}

// NameOf returns f's name, or "custom" if it does not have one.
func NameOf(f Finder) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}

func others(n, v int) []int {
	out := make([]int, 0, max(n-1, 0))
	for u := range n {
		if u != v {
			out = append(out, u)
		}
	}
	return out
}

func without(s []int, x int) []int {
	out := make([]int, 0, len(s))
	for _, v := range s {
		if v != x {
			out = append(out, v)
		}
	}
	return out
}
