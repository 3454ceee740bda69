// Package dag provides an integer-indexed directed acyclic graph used as
// causal ground truth.
//
// # Overview
//
// Variables are the integers 0..n-1, matching the column order of a
// [github.com/matzehuels/rcd/pkg/data.Matrix]. A DAG is built with [New] and
// [DAG.AddEdge] and checked with [DAG.Validate]:
//
//	g := dag.New(3)
//	g.AddEdge(dag.Edge{From: 0, To: 1})
//	g.AddEdge(dag.Edge{From: 1, To: 2})
//
// # Derived graphs
//
// [DAG.Skeleton] drops edge directions; this is what the skeleton learners
// try to recover. [DAG.Moral] additionally marries co-parents; its
// neighborhoods are the true Markov boundaries, available per variable
// through [DAG.MarkovBoundary].
//
// # d-separation
//
// [DAG.DSeparated] answers x ⊥ y | Z in the graph itself. Under faithfulness
// this is exactly the conditional-independence relation of the data, which
// makes it the basis of the perfect oracle in
// [github.com/matzehuels/rcd/pkg/citest].
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Read-only queries such
// as DSeparated can run in parallel once the graph is built.
package dag
