package skeleton

import (
	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/data"
)

// Pruner finds the neighbors of a variable that are conditionally
// independent of it given some subset of its Markov boundary.
//
// It is pure: it only issues CI queries and never mutates graph state.
type Pruner struct {
	Test citest.Test
	Data data.Dataset

	// MaxSize bounds |S| in the subset search. Negative means unbounded.
	MaxSize int

	// Exclusion bounds |T| in the exclusion search, which conditions on
	// MB(v)\{w}\T. Negative disables it.
	Exclusion int
}

// Removable returns the neighbors w of v for which some conditioning set
// drawn from boundary\{w} makes v ⊥ w. Subsets are tried smallest first,
// lexicographically within a size, followed by the exclusion search from
// the smallest T up.
func (p Pruner) Removable(v int, neighbors, boundary []int) []int {
	var out []int
	for _, w := range neighbors {
		if p.separable(v, w, minus(boundary, w)) {
			out = append(out, w)
		}
	}
	return out
}

func (p Pruner) separable(v, w int, cands []int) bool {
	indep := func(s []int) bool { return p.Test.Independent(v, w, s, p.Data) }
	if eachSubsetUpTo(cands, p.MaxSize, indep) {
		return true
	}
	if p.Exclusion < 0 {
		return false
	}
	limit := min(p.Exclusion, len(cands))
	for t := 0; t <= limit; t++ {
		// Complements with |S| <= MaxSize were covered above.
		if p.MaxSize >= 0 && len(cands)-t <= p.MaxSize {
			break
		}
		found := eachSubset(cands, t, func(drop []int) bool {
			return indep(minus(cands, drop...))
		})
		if found {
			return true
		}
	}
	return false
}
