package skeleton

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/graph"
	"github.com/matzehuels/rcd/pkg/markov"
)

// Algorithm names.
const (
	AlgorithmLMarvel = "lmarvel"
	AlgorithmRSLW    = "rslw"
)

var (
	// ErrEmptyUniverse is returned when the dataset has no variables.
	ErrEmptyUniverse = errors.New("empty variable universe")

	// ErrNilTest is returned when no CI test is supplied.
	ErrNilTest = errors.New("nil CI test")

	// ErrNilData is returned when no dataset is supplied.
	ErrNilData = errors.New("nil dataset")

	// ErrInvalidCliqueNumber is returned for a negative clique number.
	ErrInvalidCliqueNumber = errors.New("clique number must be >= 0")

	// ErrBoundarySize is returned when a boundary matrix does not match the
	// dataset's variable count.
	ErrBoundarySize = errors.New("boundary matrix size mismatch")

	// ErrUnknownAlgorithm is returned by [New] for an unsupported name.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Options configures a learner run. The zero value is valid.
type Options struct {
	// Finder computes the initial Markov boundaries. Nil uses markov.Greedy.
	Finder markov.Finder

	// Boundaries, if set, is used instead of running Finder. It is cloned,
	// never modified.
	Boundaries *markov.Matrix

	// CliqueNumber is the RSL-W bound k. Zero estimates it from the
	// boundary graph. Ignored by L-MARVEL.
	CliqueNumber int

	// Logger receives debug and warning output. Nil discards it.
	Logger *log.Logger
}

// Learner is a skeleton learning algorithm.
type Learner interface {
	Name() string
	Learn(ctx context.Context, test citest.Test, d data.Dataset, opts Options) (*graph.Graph, error)
}

type learnerFunc struct {
	name string
	fn   func(context.Context, citest.Test, data.Dataset, Options) (*graph.Graph, error)
}

func (l learnerFunc) Name() string { return l.name }

func (l learnerFunc) Learn(ctx context.Context, test citest.Test, d data.Dataset, opts Options) (*graph.Graph, error) {
	return l.fn(ctx, test, d, opts)
}

var learners = map[string]Learner{
	AlgorithmLMarvel: learnerFunc{AlgorithmLMarvel, LearnLMarvel},
	AlgorithmRSLW:    learnerFunc{AlgorithmRSLW, LearnRSLW},
}

// New returns the learner registered under name.
func New(name string) (Learner, error) {
	l, ok := learners[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", ErrUnknownAlgorithm, name, Algorithms())
	}
	return l, nil
}

// Algorithms returns the supported algorithm names, sorted.
func Algorithms() []string {
	names := make([]string, 0, len(learners))
	for name := range learners {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func validate(test citest.Test, d data.Dataset) error {
	if test == nil {
		return ErrNilTest
	}
	if d == nil {
		return ErrNilData
	}
	if d.NumVars() <= 0 {
		return ErrEmptyUniverse
	}
	return nil
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

func (o Options) finder() markov.Finder {
	if o.Finder != nil {
		return o.Finder
	}
	return markov.Greedy{}
}
