package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/graph"
)

// DefaultBenchRuns is the number of seeds a benchmark covers.
const DefaultBenchRuns = 5

// BenchOptions configures a benchmark: Runs independent generate → learn →
// score rounds with seeds Generate.Seed, Generate.Seed+1, ...
type BenchOptions struct {
	Generate GenerateOptions
	Runs     int

	// Parallel bounds the number of concurrent rounds. Zero or one runs
	// them sequentially.
	Parallel int

	// Learn is the template for each run. Data and Truth are filled in per
	// run. A zero CliqueNumber gives RSL-W the true clique number of each
	// generated graph.
	Learn Options

	// OnRun, if set, is called after each round. Calls are serialized but
	// may arrive out of seed order when Parallel > 1.
	OnRun func(BenchRun)
}

// BenchRun is the outcome of one benchmark round.
type BenchRun struct {
	Seed         uint64          `json:"seed"`
	Edges        int             `json:"true_edges"`
	CliqueNumber int             `json:"clique_number"`
	Score        graph.EdgeScore `json:"score"`
	Queries      int64           `json:"ci_tests"`
	Duration     time.Duration   `json:"duration_ns"`
}

// BenchResult summarizes a benchmark. Runs are in seed order.
type BenchResult struct {
	Runs          []BenchRun `json:"runs"`
	MeanPrecision float64    `json:"mean_precision"`
	MeanRecall    float64    `json:"mean_recall"`
	MeanF1        float64    `json:"mean_f1"`
	MeanQueries   float64    `json:"mean_ci_tests"`
}

// Bench runs the benchmark with r.
func (r *Runner) Bench(ctx context.Context, opts BenchOptions) (*BenchResult, error) {
	if opts.Runs == 0 {
		opts.Runs = DefaultBenchRuns
	}
	if opts.Runs < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "runs must be positive, got %d", opts.Runs)
	}
	opts.Generate.SetDefaults()

	runs := make([]BenchRun, opts.Runs)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Parallel, 1))
	for i := range opts.Runs {
		g.Go(func() error {
			run, err := r.benchRound(gctx, opts, opts.Generate.Seed+uint64(i))
			if err != nil {
				return err
			}
			runs[i] = run
			if opts.OnRun != nil {
				mu.Lock()
				opts.OnRun(run)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &BenchResult{Runs: runs}
	prec := make([]float64, len(runs))
	rec := make([]float64, len(runs))
	f1 := make([]float64, len(runs))
	queries := make([]float64, len(runs))
	for i, run := range runs {
		prec[i] = run.Score.Precision
		rec[i] = run.Score.Recall
		f1[i] = run.Score.F1
		queries[i] = float64(run.Queries)
	}
	res.MeanPrecision = stat.Mean(prec, nil)
	res.MeanRecall = stat.Mean(rec, nil)
	res.MeanF1 = stat.Mean(f1, nil)
	res.MeanQueries = stat.Mean(queries, nil)
	return res, nil
}

func (r *Runner) benchRound(ctx context.Context, opts BenchOptions, seed uint64) (BenchRun, error) {
	if err := ctx.Err(); err != nil {
		return BenchRun{}, errors.Wrap(errors.ErrCodeCanceled, err, "benchmark canceled")
	}
	gen := opts.Generate
	gen.Seed = seed
	sample, err := Generate(gen)
	if err != nil {
		return BenchRun{}, err
	}

	learn := opts.Learn
	learn.Data = sample.Data
	learn.Truth = sample.Truth
	learn.Formats = []string{FormatJSON}
	if learn.CliqueNumber == 0 {
		learn.CliqueNumber = max(sample.CliqueNumber, 1)
	}

	start := time.Now()
	out, err := r.Execute(ctx, learn)
	if err != nil {
		return BenchRun{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	return BenchRun{
		Seed:         seed,
		Edges:        sample.Truth.EdgeCount(),
		CliqueNumber: sample.CliqueNumber,
		Score:        *out.Score,
		Queries:      out.Stats.Evaluations,
		Duration:     time.Since(start),
	}, nil
}
