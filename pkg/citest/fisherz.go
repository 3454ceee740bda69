package citest

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/matzehuels/rcd/pkg/data"
)

// ErrNotMatrix is returned by [FisherZ.PValue] when the dataset is not a
// *data.Matrix.
var ErrNotMatrix = errors.New("fisher-z requires a *data.Matrix dataset")

// ErrTooFewSamples is returned when N - |Z| - 3 <= 0.
var ErrTooFewSamples = errors.New("too few samples for conditioning set")

// maxCorr bounds |r| away from 1 so the Fisher transform stays finite.
const maxCorr = 1 - 1e-10

// FisherZ tests conditional independence with the Fisher z-transform of the
// sample partial correlation. It assumes linear Gaussian data.
type FisherZ struct {
	// Alpha is the significance level. x and y are judged independent when
	// the p-value exceeds Alpha.
	Alpha float64
}

// NewFisherZ returns a Fisher-Z test at significance level alpha.
func NewFisherZ(alpha float64) *FisherZ { return &FisherZ{Alpha: alpha} }

// Name returns "fisherz".
func (f *FisherZ) Name() string { return "fisherz" }

// Independent reports whether the p-value of x ⊥ y | z exceeds Alpha.
// Any failure to compute the statistic (wrong dataset type, singular
// correlation submatrix, too few samples) is treated as dependence, which
// keeps the edge.
func (f *FisherZ) Independent(x, y int, z []int, d data.Dataset) bool {
	p, err := f.PValue(x, y, z, d)
	if err != nil {
		return false
	}
	return p > f.Alpha
}

// PValue returns the two-sided p-value of the hypothesis x ⊥ y | z.
func (f *FisherZ) PValue(x, y int, z []int, d data.Dataset) (float64, error) {
	m, ok := d.(*data.Matrix)
	if !ok {
		return 0, ErrNotMatrix
	}
	dof := float64(m.NumSamples() - len(z) - 3)
	if dof <= 0 {
		return 0, fmt.Errorf("%d samples, |Z| = %d: %w", m.NumSamples(), len(z), ErrTooFewSamples)
	}
	r, err := PartialCorrelation(m.Correlation(), x, y, z)
	if err != nil {
		return 0, err
	}
	r = math.Max(-maxCorr, math.Min(maxCorr, r))
	stat := math.Abs(0.5*math.Log((1+r)/(1-r))) * math.Sqrt(dof)
	return 2 * (1 - distuv.UnitNormal.CDF(stat)), nil
}

// PartialCorrelation returns the partial correlation of x and y given z from
// a correlation matrix, via the inverse of the submatrix over {x, y} ∪ z.
func PartialCorrelation(corr mat.Symmetric, x, y int, z []int) (float64, error) {
	idx := make([]int, 0, len(z)+2)
	idx = append(idx, x, y)
	idx = append(idx, z...)

	k := len(idx)
	sub := mat.NewDense(k, k, nil)
	for i, a := range idx {
		for j, b := range idx {
			sub.Set(i, j, corr.At(a, b))
		}
	}

	var prec mat.Dense
	if err := prec.Inverse(sub); err != nil {
		return 0, fmt.Errorf("invert correlation submatrix: %w", err)
	}
	den := math.Sqrt(prec.At(0, 0) * prec.At(1, 1))
	if den == 0 || math.IsNaN(den) {
		return 0, errors.New("degenerate precision matrix")
	}
	return -prec.At(0, 1) / den, nil
}
