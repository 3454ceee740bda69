package data

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/rcd/pkg/cache"
)

var (
	// ErrEmpty is returned when a dataset has no variables or no samples.
	ErrEmpty = errors.New("dataset is empty")

	// ErrRagged is returned when rows have different numbers of columns.
	ErrRagged = errors.New("rows have different lengths")

	// ErrNonFinite is returned when a value is NaN or infinite.
	ErrNonFinite = errors.New("value is not finite")

	// ErrNameCount is returned when the number of names does not match the
	// number of variables.
	ErrNameCount = errors.New("name count does not match variable count")
)

// Dataset is the opaque handle passed through the learners to the CI test.
// The learners only read the size of the variable universe.
type Dataset interface {
	NumVars() int
}

// Size is a Dataset carrying only a variable count. It serves oracles that
// answer from a known graph and never look at samples.
type Size int

// NumVars returns the variable count.
func (s Size) NumVars() int { return int(s) }

// Matrix is a numeric dataset with one row per sample and one column per
// variable. The zero value is not usable; use [NewMatrix] or [FromRows].
type Matrix struct {
	dense *mat.Dense
	names []string

	corrOnce sync.Once
	corr     *mat.SymDense
}

// NewMatrix wraps a dense matrix. Names may be nil, in which case variables
// are named X0, X1, ... Returns ErrEmpty for a matrix without rows or
// columns, ErrNonFinite if any entry is NaN or infinite, and ErrNameCount if
// the names do not match the column count.
func NewMatrix(dense *mat.Dense, names []string) (*Matrix, error) {
	if dense == nil || dense.IsEmpty() {
		return nil, ErrEmpty
	}
	r, c := dense.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := dense.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, ErrNonFinite)
			}
		}
	}
	if names == nil {
		names = DefaultNames(c)
	}
	if len(names) != c {
		return nil, fmt.Errorf("%d names for %d variables: %w", len(names), c, ErrNameCount)
	}
	return &Matrix{dense: dense, names: names}, nil
}

// FromRows builds a Matrix from a slice of sample rows.
// Returns ErrRagged if the rows differ in length.
func FromRows(rows [][]float64, names []string) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}
	c := len(rows[0])
	flat := make([]float64, 0, len(rows)*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", i, len(row), c, ErrRagged)
		}
		flat = append(flat, row...)
	}
	return NewMatrix(mat.NewDense(len(rows), c, flat), names)
}

// DefaultNames returns X0..X(n-1).
func DefaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("X%d", i)
	}
	return names
}

// NumVars returns the number of variables (columns).
func (m *Matrix) NumVars() int {
	_, c := m.dense.Dims()
	return c
}

// NumSamples returns the number of samples (rows).
func (m *Matrix) NumSamples() int {
	r, _ := m.dense.Dims()
	return r
}

// Names returns the variable names. The slice should not be modified.
func (m *Matrix) Names() []string { return m.names }

// Dense returns the underlying matrix. It should be treated as read-only.
func (m *Matrix) Dense() *mat.Dense { return m.dense }

// Column returns a copy of the samples of variable j.
func (m *Matrix) Column(j int) []float64 {
	return mat.Col(nil, j, m.dense)
}

// Correlation returns the Pearson correlation matrix of the variables.
// It is computed once and shared; callers must not modify it.
func (m *Matrix) Correlation() *mat.SymDense {
	m.corrOnce.Do(func() {
		var corr mat.SymDense
		stat.CorrelationMatrix(&corr, m.dense, nil)
		m.corr = &corr
	})
	return m.corr
}

// Hash returns a content hash of the samples, used in cache keys.
// Two matrices with identical values and names hash equally.
func (m *Matrix) Hash() string {
	r, c := m.dense.Dims()
	buf := make([]byte, 0, 16+8*r*c)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(r))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(c))
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(m.dense.At(i, j)))
		}
	}
	for _, n := range m.names {
		buf = append(buf, n...)
		buf = append(buf, 0)
	}
	return cache.Hash(buf)
}
