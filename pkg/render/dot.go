package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Names labels the variables. Missing entries fall back to the index.
	Names []string

	// Truth, if set, is the true skeleton; learned edges are colored by
	// whether they are correct and missed edges are drawn dashed.
	Truth *graph.Graph
}

const (
	colorMissed = "grey60"
	colorWrong  = "red3"
)

// SkeletonDOT converts an undirected skeleton to DOT source.
func SkeletonDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	writeHeader(&buf)
	writeNodes(&buf, g.NumVars(), opts.Names)

	for _, e := range g.Edges() {
		if opts.Truth != nil && !opts.Truth.HasEdge(e.U, e.V) {
			fmt.Fprintf(&buf, "  %d -- %d [color=%s, penwidth=2];\n", e.U, e.V, colorWrong)
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.U, e.V)
	}
	if opts.Truth != nil {
		for _, e := range opts.Truth.Edges() {
			if !g.HasEdge(e.U, e.V) {
				fmt.Fprintf(&buf, "  %d -- %d [style=dashed, color=%s];\n", e.U, e.V, colorMissed)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// DAGDOT converts a directed graph to DOT source.
func DAGDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeHeader(&buf)
	writeNodes(&buf, g.NodeCount(), opts.Names)
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %d -> %d;\n", e.From, e.To)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")
}

func writeNodes(buf *bytes.Buffer, n int, names []string) {
	for v := range n {
		label := fmt.Sprint(v)
		if v < len(names) && names[v] != "" {
			label = names[v]
		}
		fmt.Fprintf(buf, "  %d [label=%q];\n", v, label)
	}
	buf.WriteString("\n")
}
