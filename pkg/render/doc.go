// Package render draws causal DAGs and learned skeletons with Graphviz.
//
// # Usage
//
// Convert a graph to DOT source, then render it to SVG in-process:
//
//	dot := render.SkeletonDOT(skel, render.Options{Names: names})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Comparing Against Ground Truth
//
// When [Options.Truth] is set, SkeletonDOT colors the learned edges by
// outcome: correct edges black, false positives red, and true edges the
// learner missed are drawn dashed grey.
//
// # Dependencies
//
// SVG rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz
// as WebAssembly, so no system install is needed.
package render
