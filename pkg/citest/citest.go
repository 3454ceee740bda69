// Package citest provides conditional-independence tests.
//
// Learners consume CI tests only through [Test]. The package ships three
// implementations:
//
//   - [Perfect]: answers from d-separation in a known DAG (verification)
//   - [FisherZ]: partial-correlation test for linear Gaussian data
//   - [Memo]: wraps any Test, memoizing answers and counting queries
//
// Any function with the right shape can be used through [Func].
package citest

import (
	"github.com/matzehuels/rcd/pkg/data"
)

// Test answers whether x and y are conditionally independent given z.
//
// Implementations must be pure: the same arguments always give the same
// answer. Independent must be symmetric in x and y, and the order of z must
// not matter. x and y never appear in z.
type Test interface {
	Independent(x, y int, z []int, d data.Dataset) bool
}

// Func adapts a plain function to [Test].
type Func func(x, y int, z []int, d data.Dataset) bool

// Independent calls f.
func (f Func) Independent(x, y int, z []int, d data.Dataset) bool { return f(x, y, z, d) }

// Named is implemented by tests that can identify themselves in cache keys
// and reports.
type Named interface {
	Name() string
}

// NameOf returns t's name, or "custom" if it does not implement [Named].
func NameOf(t Test) string {
	if n, ok := t.(Named); ok {
		return n.Name()
	}
	return "custom"
}
