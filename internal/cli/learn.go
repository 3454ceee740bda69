package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/pipeline"
	"github.com/matzehuels/rcd/pkg/skeleton"
)

// learnOpts holds the command-line flags for the learn command.
type learnOpts struct {
	algorithm    string
	alpha        float64
	cliqueNumber int
	boundary     string
	truth        string
	perfect      bool
	formats      string
	output       string
	refresh      bool
	cache        cacheFlags
}

// learnCommand creates the learn command.
func (c *CLI) learnCommand() *cobra.Command {
	opts := learnOpts{}

	cmd := &cobra.Command{
		Use:   "learn [data.csv]",
		Short: "Learn a causal skeleton from observational data",
		Long: `Learn the undirected skeleton of the causal graph behind a CSV dataset.

The Markov boundaries of all variables are estimated first, then variables
are eliminated one at a time with the selected algorithm:

  lmarvel  no structural assumptions
  rslw     assumes the skeleton's clique number is at most --clique-number

With --truth the learned skeleton is scored against the true DAG. With
--perfect the statistical test is replaced by d-separation in the true DAG,
and the data argument may be omitted.`,
		Example: `  rcd learn data.csv
  rcd learn data.csv -a rslw -k 3 -f json,svg
  rcd learn --truth graph.json --perfect -a rslw`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLearn(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", "", fmt.Sprintf("learning algorithm: %s (default %s)", strings.Join(skeleton.Algorithms(), ", "), pipeline.DefaultAlgorithm))
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0, fmt.Sprintf("significance level of the Fisher-Z test (default %g)", pipeline.DefaultAlpha))
	cmd.Flags().IntVarP(&opts.cliqueNumber, "clique-number", "k", 0, "RSL-W clique number bound (0 estimates it)")
	cmd.Flags().StringVar(&opts.boundary, "boundary", "", "Markov boundary finder: greedy, precision (default greedy)")
	cmd.Flags().StringVar(&opts.truth, "truth", "", "true DAG (JSON) to score against")
	cmd.Flags().BoolVar(&opts.perfect, "perfect", false, "answer CI queries by d-separation in the true DAG")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: json, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	addCacheFlags(cmd, &opts.cache)

	return cmd
}

func addCacheFlags(cmd *cobra.Command, f *cacheFlags) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "", "use a Redis cache at this address")
}

// learnOptions merges flags over the [learn] table of the config file.
func (c *CLI) learnOptions(opts learnOpts) pipeline.Options {
	cfg := c.Config.Learn
	formats := parseFormats(opts.formats)
	if formats == nil {
		formats = cfg.Formats
	}
	return pipeline.Options{
		Algorithm:    firstNonZero(opts.algorithm, cfg.Algorithm),
		Alpha:        firstNonZero(opts.alpha, cfg.Alpha),
		CliqueNumber: firstNonZero(opts.cliqueNumber, cfg.CliqueNumber),
		Boundary:     firstNonZero(opts.boundary, cfg.Boundary),
		Formats:      formats,
		Refresh:      opts.refresh,
		Perfect:      opts.perfect,
		Logger:       c.Logger,
	}
}

func (c *CLI) runLearn(ctx context.Context, input string, opts learnOpts) error {
	popts := c.learnOptions(opts)

	switch {
	case input != "":
		m, err := pipeline.LoadData(input)
		if err != nil {
			return err
		}
		popts.Data = m
	case !opts.perfect:
		return errors.New(errors.ErrCodeInvalidInput, "a data file is required unless --perfect is set")
	}

	if opts.truth != "" {
		truth, names, err := pipeline.LoadTruth(opts.truth)
		if err != nil {
			return err
		}
		popts.Truth = truth
		popts.Names = names
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, c.out, "Learning skeleton...")
	spinner.Start()
	result, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	base := opts.output
	if base == "" {
		base = defaultBase(firstNonZero(input, opts.truth))
	}
	paths, err := writeArtifacts(base, result.Artifacts)
	if err != nil {
		return err
	}

	c.printResult(result)
	for _, p := range paths {
		c.out.file(p)
	}
	if _, ok := result.Artifacts[pipeline.FormatJSON]; ok && len(paths) > 0 {
		c.out.nextStep("Render it", appName, "render", base+"."+pipeline.FormatJSON, "-f", "svg")
	}
	return nil
}

func (c *CLI) printResult(r *pipeline.Result) {
	cached := r.CacheInfo.SkeletonHit
	c.out.success("Learned skeleton with %d edges", r.Stats.EdgeCount)
	c.out.stats(r.Stats.NumVars, r.Stats.EdgeCount, cached)
	if !cached {
		c.out.detail("%d CI queries · %d tests evaluated", r.Stats.Queries, r.Stats.Evaluations)
	}
	if r.Score != nil {
		c.out.score(*r.Score)
	}
}

// defaultBase derives an output base path from an input file:
// dir/data.csv becomes dir/data.skeleton.
func defaultBase(input string) string {
	if input == "" {
		return "skeleton"
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), stem+".skeleton")
}

// writeArtifacts writes each artifact to base.<format> in a stable order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	var paths []string
	for _, format := range []string{pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatSVG} {
		raw, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
