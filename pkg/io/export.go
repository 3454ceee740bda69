package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/graph"
)

// Document kinds.
const (
	KindDAG      = "dag"
	KindSkeleton = "skeleton"
)

type document struct {
	Kind  string          `json:"kind"`
	N     int             `json:"n"`
	Names []string        `json:"names,omitempty"`
	Edges json.RawMessage `json:"edges"`
}

// WriteDAG encodes g as a "dag" document.
func WriteDAG(g *dag.DAG, names []string, w io.Writer) error {
	edges := g.Edges()
	if edges == nil {
		edges = []dag.Edge{}
	}
	return writeDocument(w, KindDAG, g.NodeCount(), names, edges)
}

// WriteSkeleton encodes g as a "skeleton" document. Edges are sorted.
func WriteSkeleton(g *graph.Graph, names []string, w io.Writer) error {
	return writeDocument(w, KindSkeleton, g.NumVars(), names, g.Edges())
}

// MarshalSkeleton returns the compact JSON encoding of g, used for caching
// and hashing.
func MarshalSkeleton(g *graph.Graph, names []string) ([]byte, error) {
	raw, err := json.Marshal(g.Edges())
	if err != nil {
		return nil, err
	}
	return json.Marshal(document{Kind: KindSkeleton, N: g.NumVars(), Names: names, Edges: raw})
}

// ExportDAG writes g to a JSON file at path.
func ExportDAG(g *dag.DAG, names []string, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteDAG(g, names, w) })
}

// ExportSkeleton writes g to a JSON file at path.
func ExportSkeleton(g *graph.Graph, names []string, path string) error {
	return exportFile(path, func(w io.Writer) error { return WriteSkeleton(g, names, w) })
}

func writeDocument(w io.Writer, kind string, n int, names []string, edges any) error {
	raw, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("encode edges: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Kind: kind, N: n, Names: names, Edges: raw}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
