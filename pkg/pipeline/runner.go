package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rcd/pkg/cache"
	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/graph"
	rcdio "github.com/matzehuels/rcd/pkg/io"
	"github.com/matzehuels/rcd/pkg/markov"
	"github.com/matzehuels/rcd/pkg/observability"
	"github.com/matzehuels/rcd/pkg/skeleton"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the boundaries → learn → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	id := uuid.New()
	logger := opts.Logger.With("run", id.String()[:8])
	test := citest.NewMemo(opts.Test())
	dataHash, err := r.dataHash(&opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:    id,
		Names: opts.VarNames(),
	}
	result.Stats.NumVars = opts.numVars()
	logger.Debug("starting run", "opts", opts.String(), "vars", result.Stats.NumVars)

	// Stage 1: Markov boundaries
	start := time.Now()
	mb, hit, err := r.boundaries(ctx, &opts, test, dataHash)
	if err != nil {
		return nil, fmt.Errorf("boundaries: %w", err)
	}
	result.Boundaries = mb
	result.Stats.BoundaryTime = time.Since(start)
	result.CacheInfo.BoundaryHit = hit

	logger.Info("found markov boundaries",
		"finder", opts.Boundary,
		"max_size", maxBoundary(mb),
		"cached", hit,
		"duration", result.Stats.BoundaryTime)

	// Stage 2: Learn
	start = time.Now()
	g, hit, err := r.learn(ctx, &opts, test, dataHash, mb, logger)
	if err != nil {
		return nil, fmt.Errorf("learn: %w", err)
	}
	result.Skeleton = g
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.LearnTime = time.Since(start)
	result.CacheInfo.SkeletonHit = hit

	stats := test.Stats()
	result.Stats.Queries = stats.Queries
	result.Stats.Evaluations = stats.Evaluations

	logger.Info("learned skeleton",
		"algorithm", opts.Algorithm,
		"edges", g.EdgeCount(),
		"ci_tests", stats.Evaluations,
		"cached", hit,
		"duration", result.Stats.LearnTime)

	if opts.Truth != nil {
		score := graph.Score(opts.Truth.Skeleton(), g)
		result.Score = &score
		logger.Info("scored skeleton",
			"precision", fmt.Sprintf("%.3f", score.Precision),
			"recall", fmt.Sprintf("%.3f", score.Recall),
			"f1", fmt.Sprintf("%.3f", score.F1))
	}

	// Stage 3: Render
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// boundaries computes the Markov boundary matrix, consulting the cache.
func (r *Runner) boundaries(ctx context.Context, opts *Options, test citest.Test, dataHash string) (*markov.Matrix, bool, error) {
	key := r.Keyer.BoundaryKey(dataHash, opts.BoundaryKeyOpts())

	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var mb markov.Matrix
			if err := json.Unmarshal(raw, &mb); err == nil && mb.NumVars() == opts.numVars() {
				return &mb, true, nil
			}
		}
	}

	finder := opts.Finder()
	name := markov.NameOf(finder)
	observability.Learn().OnBoundaryStart(ctx, name, opts.numVars())
	start := time.Now()
	mb, err := finder.Find(ctx, opts.Dataset(), test)
	observability.Learn().OnBoundaryComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nil, false, classify(err)
	}

	if raw, err := json.Marshal(mb); err == nil {
		_ = r.Cache.Set(ctx, key, raw, cache.TTLBoundary)
	}
	return mb, false, nil
}

// learn runs the configured learner, consulting the cache.
func (r *Runner) learn(ctx context.Context, opts *Options, test citest.Test, dataHash string, mb *markov.Matrix, logger *log.Logger) (*graph.Graph, bool, error) {
	key := r.Keyer.SkeletonKey(dataHash, opts.SkeletonKeyOpts())

	if !opts.Refresh {
		if raw, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, _, err := rcdio.UnmarshalSkeleton(raw); err == nil && g.NumVars() == opts.numVars() {
				return g, true, nil
			}
		}
	}

	learner, err := skeleton.New(opts.Algorithm)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidAlgorithm, err, "invalid algorithm")
	}
	g, err := learner.Learn(ctx, test, opts.Dataset(), skeleton.Options{
		Boundaries:   mb,
		CliqueNumber: opts.CliqueNumber,
		Logger:       logger,
	})
	if err != nil {
		return nil, false, classify(err)
	}

	if raw, err := rcdio.MarshalSkeleton(g, opts.VarNames()); err == nil {
		_ = r.Cache.Set(ctx, key, raw, cache.TTLSkeleton)
	}
	return g, false, nil
}

// RenderWithCacheInfo encodes g in every requested format and reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	hash, err := renderHash(g, opts)
	if err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			raw, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = raw
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}
	for format, raw := range rendered {
		_ = r.Cache.Set(ctx, r.Keyer.ArtifactKey(hash, format), raw, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// dataHash identifies the input of the run: the samples, or the true DAG
// for perfect-oracle runs.
func (r *Runner) dataHash(opts *Options) (string, error) {
	if !opts.Perfect {
		return opts.Data.Hash(), nil
	}
	var buf bytes.Buffer
	if err := rcdio.WriteDAG(opts.Truth, nil, &buf); err != nil {
		return "", fmt.Errorf("hash ground truth: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}

// renderHash covers everything that changes the rendered bytes.
func renderHash(g *graph.Graph, opts Options) (string, error) {
	raw, err := rcdio.MarshalSkeleton(g, opts.VarNames())
	if err != nil {
		return "", fmt.Errorf("serialize skeleton for cache key: %w", err)
	}
	if opts.Truth != nil {
		var buf bytes.Buffer
		if err := rcdio.WriteDAG(opts.Truth, nil, &buf); err != nil {
			return "", fmt.Errorf("serialize ground truth for cache key: %w", err)
		}
		raw = append(raw, buf.Bytes()...)
	}
	return cache.Hash(raw), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// classify maps learner and finder sentinels to coded errors.
func classify(err error) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "run timed out")
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeCanceled, err, "run canceled")
	case stderrors.Is(err, skeleton.ErrEmptyUniverse),
		stderrors.Is(err, skeleton.ErrNilData),
		stderrors.Is(err, markov.ErrSingular),
		stderrors.Is(err, citest.ErrNotMatrix),
		stderrors.Is(err, citest.ErrTooFewSamples):
		return errors.Wrap(errors.ErrCodeInvalidData, err, "unusable data")
	case stderrors.Is(err, skeleton.ErrInvalidCliqueNumber),
		stderrors.Is(err, skeleton.ErrBoundarySize):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "learning failed")
}

func maxBoundary(mb *markov.Matrix) int {
	best := 0
	for v := 0; v < mb.NumVars(); v++ {
		best = max(best, mb.Size(v))
	}
	return best
}
