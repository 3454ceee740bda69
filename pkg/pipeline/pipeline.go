// Package pipeline runs skeleton discovery end to end for the CLI, the HTTP
// API and the benchmark harness.
//
// # Architecture
//
// A run has three stages, each cached independently:
//
//  1. Boundaries: compute the Markov boundary matrix of the dataset
//  2. Learn: eliminate variables with L-MARVEL or RSL-W to get the skeleton
//  3. Render: encode the skeleton as JSON, DOT or SVG
//
// When a ground-truth DAG is supplied the skeleton is also scored against
// the true skeleton, and Perfect runs replace the statistical CI test by
// d-separation in that DAG.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Algorithm: "rslw",
//	    Data:      matrix,
//	    Formats:   []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/rcd/pkg/cache"
	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/errors"
	"github.com/matzehuels/rcd/pkg/graph"
	"github.com/matzehuels/rcd/pkg/markov"
	"github.com/matzehuels/rcd/pkg/skeleton"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Benchmarks
// =============================================================================

const (
	// DefaultAlgorithm is the learner used when none is named.
	DefaultAlgorithm = skeleton.AlgorithmLMarvel

	// DefaultAlpha is the Fisher-Z significance level.
	DefaultAlpha = 0.01

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultSamples is the number of rows drawn by Generate.
	DefaultSamples = 1000

	// DefaultVars is the number of variables drawn by Generate.
	DefaultVars = 20

	// DefaultBoundary is the default Markov boundary finder.
	DefaultBoundary = BoundaryGreedy
)

// Boundary finder names.
const (
	BoundaryGreedy    = "greedy"
	BoundaryPrecision = "precision"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidBoundaries is the set of supported boundary finders.
var ValidBoundaries = map[string]bool{
	BoundaryGreedy:    true,
	BoundaryPrecision: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run. The serialized fields form the body
// of API requests.
type Options struct {
	Algorithm    string   `json:"algorithm,omitempty"`
	Alpha        float64  `json:"alpha,omitempty"`
	CliqueNumber int      `json:"clique_number,omitempty"`
	Boundary     string   `json:"boundary,omitempty"`
	Formats      []string `json:"formats,omitempty"`
	Refresh      bool     `json:"refresh,omitempty"`

	// Data is the sample matrix. Required unless Perfect is set.
	Data *data.Matrix `json:"-"`

	// Truth is the generating DAG, if known. The skeleton is scored
	// against it and rendered outputs mark wrong and missed edges.
	Truth *dag.DAG `json:"-"`

	// Perfect replaces the Fisher-Z test by d-separation in Truth.
	Perfect bool `json:"-"`

	// Names labels variables when Data is nil.
	Names []string `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies the run in logs and API responses.
	ID uuid.UUID

	Skeleton   *graph.Graph
	Boundaries *markov.Matrix
	Names      []string

	// Score is set when a ground-truth DAG was supplied.
	Score *graph.EdgeScore

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	NumVars   int
	EdgeCount int

	// CI test usage during this run. Both are zero when the stages that
	// query the test were served from the cache.
	Queries     int64
	Evaluations int64

	BoundaryTime time.Duration
	LearnTime    time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	BoundaryHit bool
	SkeletonHit bool
	RenderHit   bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAlgorithm checks that a learner is registered under name.
func ValidateAlgorithm(name string) error {
	if _, err := skeleton.New(name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidAlgorithm, err, "invalid algorithm")
	}
	return nil
}

// ValidateBoundary checks that a boundary finder name is valid.
func ValidateBoundary(name string) error {
	if !ValidBoundaries[name] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid boundary finder: %q (must be one of: greedy, precision)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()

	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	if err := errors.ValidateAlpha(o.Alpha); err != nil {
		return err
	}
	if err := errors.ValidateCliqueNumber(o.CliqueNumber); err != nil {
		return err
	}
	if err := ValidateBoundary(o.Boundary); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	switch {
	case o.Perfect && o.Truth == nil:
		return errors.New(errors.ErrCodeInvalidInput, "perfect oracle requires a ground-truth graph")
	case o.Perfect && o.Boundary == BoundaryPrecision:
		return errors.New(errors.ErrCodeInvalidInput, "precision boundaries need sample data, not a perfect oracle")
	case !o.Perfect && o.Data == nil:
		return errors.New(errors.ErrCodeInvalidData, "data is required")
	}
	if n := o.numVars(); n == 0 {
		return errors.Wrap(errors.ErrCodeInvalidData, skeleton.ErrEmptyUniverse, "no variables")
	}
	if o.Truth != nil && o.Data != nil && o.Truth.NodeCount() != o.Data.NumVars() {
		return errors.New(errors.ErrCodeInvalidGraph, "ground truth has %d variables, data has %d",
			o.Truth.NodeCount(), o.Data.NumVars())
	}

	o.validated = true
	return nil
}

// SetDefaults fills in unset fields.
func (o *Options) SetDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Alpha == 0 {
		o.Alpha = DefaultAlpha
	}
	if o.Boundary == "" {
		o.Boundary = DefaultBoundary
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Dataset returns what the learners see: the sample matrix, or just the
// variable count for perfect-oracle runs.
func (o *Options) Dataset() data.Dataset {
	if o.Perfect {
		return data.Size(o.Truth.NodeCount())
	}
	return o.Data
}

// Test builds the base CI test for the run.
func (o *Options) Test() citest.Test {
	if o.Perfect {
		return citest.NewPerfect(o.Truth)
	}
	return citest.NewFisherZ(o.Alpha)
}

// Finder builds the Markov boundary finder for the run.
func (o *Options) Finder() markov.Finder {
	if o.Boundary == BoundaryPrecision {
		return markov.Precision{Alpha: o.Alpha}
	}
	return markov.Greedy{}
}

// VarNames returns the variable labels.
func (o *Options) VarNames() []string {
	if o.Data != nil {
		return o.Data.Names()
	}
	if len(o.Names) == o.numVars() {
		return o.Names
	}
	return data.DefaultNames(o.numVars())
}

// BoundaryKeyOpts returns cache key options for the boundary stage.
func (o *Options) BoundaryKeyOpts() cache.BoundaryKeyOpts {
	return cache.BoundaryKeyOpts{
		Finder: o.Boundary,
		Test:   o.testName(),
		Alpha:  o.keyAlpha(),
	}
}

// SkeletonKeyOpts returns cache key options for the learn stage.
func (o *Options) SkeletonKeyOpts() cache.SkeletonKeyOpts {
	return cache.SkeletonKeyOpts{
		Algorithm:    o.Algorithm,
		Finder:       o.Boundary,
		Test:         o.testName(),
		Alpha:        o.keyAlpha(),
		CliqueNumber: o.CliqueNumber,
	}
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

func (o *Options) numVars() int {
	if o.Perfect || o.Data == nil {
		if o.Truth == nil {
			return 0
		}
		return o.Truth.NodeCount()
	}
	return o.Data.NumVars()
}

func (o *Options) testName() string {
	if o.Perfect {
		return "perfect"
	}
	return "fisherz"
}

// keyAlpha drops alpha from perfect-oracle keys, where it has no effect.
func (o *Options) keyAlpha() float64 {
	if o.Perfect {
		return 0
	}
	return o.Alpha
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s/%s/%s alpha=%g k=%d", o.Algorithm, o.Boundary, o.testName(), o.Alpha, o.CliqueNumber)
}
