package pipeline

import (
	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/graph"
	"github.com/matzehuels/rcd/pkg/sim"
)

// GenerateOptions configures synthetic data generation.
type GenerateOptions struct {
	Vars     int     `json:"vars,omitempty"`
	EdgeProb float64 `json:"edge_prob,omitempty"` // 0 means ln(n)/n
	Samples  int     `json:"samples,omitempty"`
	Seed     uint64  `json:"seed,omitempty"`
}

// Generated is a random DAG with Gaussian samples drawn from it.
type Generated struct {
	Truth *dag.DAG
	Data  *data.Matrix

	// CliqueNumber is the clique number of the true skeleton, the tight
	// RSL-W bound for this graph.
	CliqueNumber int
}

// SetDefaults fills in unset fields.
func (o *GenerateOptions) SetDefaults() {
	if o.Vars == 0 {
		o.Vars = DefaultVars
	}
	if o.Samples == 0 {
		o.Samples = DefaultSamples
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
}

// Validate checks the options after defaults are applied.
func (o *GenerateOptions) Validate() error {
	if o.Vars < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "vars must be positive, got %d", o.Vars)
	}
	if o.Samples < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "samples must be positive, got %d", o.Samples)
	}
	return errors.ValidateProbability(o.EdgeProb)
}

// Generate samples an Erdős–Rényi DAG and a linear Gaussian dataset from
// it. The same options always produce the same output.
func Generate(opts GenerateOptions) (*Generated, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	rng := sim.NewRand(opts.Seed)
	g, err := sim.ErdosRenyi(opts.Vars, opts.EdgeProb, rng)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "generate graph")
	}
	m, err := sim.GaussianData(g, opts.Samples, rng)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "generate data")
	}
	return &Generated{
		Truth:        g,
		Data:         m,
		CliqueNumber: graph.CliqueNumber(g.Skeleton()),
	}, nil
}
