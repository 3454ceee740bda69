// Package skeleton learns the skeleton (undirected edge set) of a causal DAG
// from conditional-independence queries.
//
// # Algorithms
//
// Two learners share one recursive elimination loop:
//
//   - [LearnLMarvel]: L-MARVEL, which makes no structural assumption.
//   - [LearnRSLW]: RSL-W, which assumes the true graph is diamond-free with
//     clique number at most k and uses k to bound every conditioning-set
//     search.
//
// Both start from the Markov boundary matrix (see package markov), seed the
// working skeleton with the symmetrized boundary graph, and then repeat:
//
//  1. Select: visit active variables by (boundary size, index). Each
//     candidate is pruned once, then checked for removability. The first
//     removable candidate is chosen.
//  2. Prune: drop every edge v–w for which v ⊥ w | S with S ⊆ MB(v)\{w}.
//  3. Eliminate: commit v's remaining edges, drop v from all boundaries, and
//     drop co-parent relations that only existed through v.
//
// The loop runs exactly n iterations. Edges are only removed, never added.
//
// # Preconditions
//
// Under faithfulness and a perfect oracle both learners return the true
// skeleton. RSL-W additionally requires the clique-number bound to hold; a
// bound that is too small silently degrades the result but the loop still
// terminates. Inconsistent oracles are tolerated: if no candidate passes the
// removability check the smallest one is eliminated anyway and a warning is
// logged.
package skeleton
