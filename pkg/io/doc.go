// Package io provides JSON import and export for causal DAGs and learned
// skeletons.
//
// # JSON Format
//
// Both documents share one shape, discriminated by "kind":
//
//	{
//	  "kind": "dag",
//	  "n": 3,
//	  "names": ["X0", "X1", "X2"],
//	  "edges": [{"from": 0, "to": 1}, {"from": 1, "to": 2}]
//	}
//
//	{
//	  "kind": "skeleton",
//	  "n": 3,
//	  "edges": [{"u": 0, "v": 1}, {"u": 1, "v": 2}]
//	}
//
// Variables are column indices into the dataset. "names" is optional and
// only used for display.
//
// # Import
//
// Use [ImportDAG] and [ImportSkeleton] for files of a known kind, or
// [ReadDocument] when either is accepted:
//
//	doc, err := io.ImportDocument("graph.json")
//	if doc.DAG != nil { ... }
//
// # Export
//
//	io.ExportDAG(g, names, "graph.json")
//	io.ExportSkeleton(skel, names, "skeleton.json")
package io
