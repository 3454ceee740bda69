// Package graph provides the undirected graphs produced by skeleton learning.
//
// # Core Types
//
//   - [Graph]: an immutable-by-convention undirected simple graph over the
//     variables 0..n-1. Learners return it as the final skeleton.
//   - [Working]: the mutable skeleton a learner shrinks. It distinguishes
//     active variables, whose edges may still be removed, from eliminated
//     ones, whose edges have been committed to the result.
//   - [Edge]: an undirected pair with U < V.
//
// # Working Graph Lifecycle
//
//	w := graph.NewWorking(n, moral)  // seed from the Markov boundary graph
//	w.RemoveEdge(u, v)               // proven independent; idempotent
//	w.RemoveVariable(v)              // commit v's remaining edges, detach v
//	skeleton := w.Finalize()
//
// # Utilities
//
// [CliqueNumber] computes the clique number with gonum's Bron–Kerbosch
// implementation. [Score] computes edge precision, recall and F1 against a
// known skeleton.
package graph
