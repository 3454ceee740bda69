package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/pipeline"
)

// benchOpts holds the command-line flags for the bench command.
type benchOpts struct {
	learn    learnOpts
	gen      generateOpts
	runs     int
	parallel int
	jsonOut  string
}

// benchCommand creates the bench command, which repeats generate → learn →
// score over consecutive seeds and reports mean accuracy.
func (c *CLI) benchCommand() *cobra.Command {
	opts := benchOpts{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark an algorithm on random graphs",
		Long: `Generate --runs random DAGs with consecutive seeds, learn a skeleton from
each and score it against the truth.

Without --clique-number, RSL-W is given the true clique number of each
generated graph.`,
		Example: `  rcd bench --vars 20 --runs 10 -a rslw
  rcd bench --perfect --parallel 4 --json bench.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBench(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.learn.algorithm, "algorithm", "a", "", "learning algorithm")
	cmd.Flags().Float64Var(&opts.learn.alpha, "alpha", 0, "significance level of the Fisher-Z test")
	cmd.Flags().IntVarP(&opts.learn.cliqueNumber, "clique-number", "k", 0, "RSL-W clique number bound (0 uses the true one)")
	cmd.Flags().StringVar(&opts.learn.boundary, "boundary", "", "Markov boundary finder: greedy, precision")
	cmd.Flags().BoolVar(&opts.learn.perfect, "perfect", false, "answer CI queries by d-separation in the true DAG")
	cmd.Flags().IntVar(&opts.gen.vars, "vars", 0, "number of variables per graph")
	cmd.Flags().Float64Var(&opts.gen.edgeProb, "edge-prob", 0, "edge probability (default ln(n)/n)")
	cmd.Flags().IntVar(&opts.gen.samples, "samples", 0, "samples per dataset")
	cmd.Flags().Uint64Var(&opts.gen.seed, "seed", 0, "first seed")
	cmd.Flags().IntVar(&opts.runs, "runs", pipeline.DefaultBenchRuns, "number of graphs")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "concurrent runs")
	cmd.Flags().StringVar(&opts.jsonOut, "json", "", "also write the full result as JSON to this file")
	addCacheFlags(cmd, &opts.learn.cache)

	return cmd
}

func (c *CLI) runBench(ctx context.Context, opts benchOpts) error {
	if opts.runs < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "runs must be positive, got %d", opts.runs)
	}
	cfg := c.Config.Generate
	learn := c.learnOptions(opts.learn)
	learn.Formats = nil

	runner, err := c.newRunner(ctx, opts.learn.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Bench(ctx, pipeline.BenchOptions{
		Generate: pipeline.GenerateOptions{
			Vars:     firstNonZero(opts.gen.vars, cfg.Vars),
			EdgeProb: firstNonZero(opts.gen.edgeProb, cfg.EdgeProb),
			Samples:  firstNonZero(opts.gen.samples, cfg.Samples),
			Seed:     firstNonZero(opts.gen.seed, cfg.Seed),
		},
		Runs:     opts.runs,
		Parallel: opts.parallel,
		Learn:    learn,
		OnRun: func(r pipeline.BenchRun) {
			c.out.info("seed %-6d f1 %.3f  ω=%d  %d edges  %d CI tests  %s",
				r.Seed, r.Score.F1, r.CliqueNumber, r.Edges, r.Queries, r.Duration.Round(time.Millisecond))
		},
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("benchmarked %d graphs", len(result.Runs)))

	c.out.success("Benchmark complete")
	c.out.keyValue("precision", StyleNumber.Render(fmt.Sprintf("%.3f", result.MeanPrecision)))
	c.out.keyValue("recall", StyleNumber.Render(fmt.Sprintf("%.3f", result.MeanRecall)))
	c.out.keyValue("f1", StyleNumber.Render(fmt.Sprintf("%.3f", result.MeanF1)))
	c.out.keyValue("CI tests", StyleNumber.Render(fmt.Sprintf("%.0f", result.MeanQueries)))

	if opts.jsonOut != "" {
		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.jsonOut, raw, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.jsonOut)
		}
		c.out.file(opts.jsonOut)
	}
	return nil
}
