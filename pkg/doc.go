// Package pkg provides the core libraries of rcd, a causal skeleton learner.
//
// # Overview
//
// rcd recovers the undirected skeleton of a causal DAG from observational
// data by recursive variable elimination: the variable with the smallest
// Markov boundary is removed once its neighbors are known, the boundaries of
// the remaining variables are updated, and the process repeats. The pkg
// directory is organized into four areas:
//
//  1. Graphs and data ([dag], [graph], [data], [sim])
//  2. Statistics ([citest], [markov])
//  3. Learning ([skeleton])
//  4. Orchestration and infrastructure ([pipeline], [cache], [io], [render],
//     [config], [observability], [errors])
//
// # Architecture
//
// The typical data flow:
//
//	CSV samples (or a ground-truth DAG)
//	         ↓
//	    [citest] package (Fisher-Z test, or d-separation oracle)
//	         ↓
//	    [markov] package (Markov boundary matrix)
//	         ↓
//	    [skeleton] package (L-MARVEL / RSL-W elimination)
//	         ↓
//	    JSON/DOT/SVG output
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/rcd/pkg/citest"
//	    "github.com/matzehuels/rcd/pkg/data"
//	    "github.com/matzehuels/rcd/pkg/skeleton"
//	)
//
//	m, _ := data.ImportCSV("samples.csv")
//	test := citest.NewFisherZ(0.01)
//	g, _ := skeleton.LearnLMarvel(context.Background(), test, m, skeleton.Options{})
//	fmt.Println(g.Edges())
//
// For cached runs with scoring and rendering, use [pipeline.Runner]:
//
//	r := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := r.Execute(ctx, pipeline.Options{Data: m, Algorithm: "rslw", CliqueNumber: 3})
//
// # Main Packages
//
// [dag] - Integer-indexed DAGs with skeleton, moral graph and d-separation.
//
// [graph] - Undirected skeletons, the working graph learners mutate, clique
// number and edge scoring.
//
// [citest] - Conditional independence tests behind one interface, plus a
// memoizing wrapper that counts queries.
//
// [markov] - Markov boundary discovery (greedy shrink or precision matrix).
//
// [skeleton] - The two learners and the shared elimination loop.
//
// [pipeline] - boundaries → learn → render with per-stage caching, synthetic
// data generation and benchmarking. Used by both the CLI and the HTTP API.
//
// [cache] - File, Redis and null caches keyed by data hash and options.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/skeleton/...   # Specific package
//	go test -run Example ./...   # Examples only
//
// [dag]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/dag
// [graph]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/graph
// [data]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/data
// [sim]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/sim
// [citest]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/citest
// [markov]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/markov
// [skeleton]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/skeleton
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/cache
// [io]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/render
// [config]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/rcd/pkg/errors
package pkg
