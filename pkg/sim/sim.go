// Package sim generates synthetic causal structures and data for
// experiments: Erdős–Rényi DAGs and samples from linear Gaussian structural
// equation models over them.
//
// All randomness flows through an explicit *rand.Rand so runs are
// reproducible from a seed. Use [NewRand] to build one.
package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
)

// Default edge weight range for linear SEMs. Weights are drawn uniformly
// from [MinWeight, MaxWeight] with a random sign.
const (
	MinWeight = 0.5
	MaxWeight = 1.5
)

// ErrInvalidSize is returned for a negative variable count or non-positive
// sample count.
var ErrInvalidSize = errors.New("invalid size")

// NewRand returns a PCG-backed generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// DefaultEdgeProb returns ln(n)/n, the sparsity used for sparse ER graphs.
// It returns 0 for n < 2.
func DefaultEdgeProb(n int) float64 {
	if n < 2 {
		return 0
	}
	return math.Log(float64(n)) / float64(n)
}

// ErdosRenyi samples a random DAG over n variables. Each pair is connected
// with probability p, oriented along a random permutation so that the
// causal order is not the index order. A p <= 0 uses [DefaultEdgeProb].
func ErdosRenyi(n int, p float64, rng *rand.Rand) (*dag.DAG, error) {
	if n < 0 {
		return nil, fmt.Errorf("n = %d: %w", n, ErrInvalidSize)
	}
	if p <= 0 {
		p = DefaultEdgeProb(n)
	}
	perm := rng.Perm(n)
	g := dag.New(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				if err := g.AddEdge(dag.Edge{From: perm[i], To: perm[j]}); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

// SEM is a linear Gaussian structural equation model:
// X_v = Σ_{u ∈ pa(v)} W[u][v]·X_u + ε_v with ε_v ~ N(0, 1).
type SEM struct {
	Graph   *dag.DAG
	Weights *mat.Dense // Weights.At(u, v) is the coefficient of u → v
}

// RandomSEM draws edge weights for g.
func RandomSEM(g *dag.DAG, rng *rand.Rand) *SEM {
	n := g.NodeCount()
	w := mat.NewDense(max(n, 1), max(n, 1), nil)
	for _, e := range g.Edges() {
		weight := MinWeight + rng.Float64()*(MaxWeight-MinWeight)
		if rng.IntN(2) == 0 {
			weight = -weight
		}
		w.Set(e.From, e.To, weight)
	}
	return &SEM{Graph: g, Weights: w}
}

// Sample draws samples rows from the model in topological order.
func (s *SEM) Sample(samples int, rng *rand.Rand) (*data.Matrix, error) {
	n := s.Graph.NodeCount()
	if n == 0 || samples <= 0 {
		return nil, fmt.Errorf("%d variables, %d samples: %w", n, samples, ErrInvalidSize)
	}
	order, err := s.Graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	x := mat.NewDense(samples, n, nil)
	for i := 0; i < samples; i++ {
		for _, v := range order {
			val := rng.NormFloat64()
			for _, u := range s.Graph.Parents(v) {
				val += s.Weights.At(u, v) * x.At(i, u)
			}
			x.Set(i, v, val)
		}
	}
	return data.NewMatrix(x, nil)
}

// GaussianData is shorthand for RandomSEM(g, rng).Sample(samples, rng).
func GaussianData(g *dag.DAG, samples int, rng *rand.Rand) (*data.Matrix, error) {
	return RandomSEM(g, rng).Sample(samples, rng)
}
