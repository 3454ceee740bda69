package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/graph"
)

var (
	// ErrUnknownKind is returned when "kind" is neither "dag" nor "skeleton".
	ErrUnknownKind = errors.New("unknown document kind")

	// ErrWrongKind is returned when a document of one kind is read as the
	// other.
	ErrWrongKind = errors.New("wrong document kind")

	// ErrInvalidEdge is returned when an edge endpoint is outside 0..n-1 or
	// an undirected edge is a self-loop.
	ErrInvalidEdge = errors.New("invalid edge")
)

// Document is a decoded file of either kind. Exactly one of DAG and
// Skeleton is set.
type Document struct {
	Kind     string
	Names    []string
	DAG      *dag.DAG
	Skeleton *graph.Graph
}

// N returns the number of variables.
func (d *Document) N() int {
	if d.DAG != nil {
		return d.DAG.NodeCount()
	}
	return d.Skeleton.NumVars()
}

// ReadDocument decodes a document of either kind. A DAG must be acyclic.
// ReadDocument does not close r.
func ReadDocument(r io.Reader) (*Document, error) {
	var raw document
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if raw.N < 0 {
		return nil, fmt.Errorf("n = %d: %w", raw.N, ErrInvalidEdge)
	}
	if raw.Names != nil && len(raw.Names) != raw.N {
		return nil, fmt.Errorf("%d names for n = %d", len(raw.Names), raw.N)
	}
	edges := raw.Edges
	if len(bytes.TrimSpace(edges)) == 0 {
		edges = []byte("[]")
	}

	doc := &Document{Kind: raw.Kind, Names: raw.Names}
	switch raw.Kind {
	case KindDAG:
		var es []dag.Edge
		if err := json.Unmarshal(edges, &es); err != nil {
			return nil, fmt.Errorf("decode edges: %w", err)
		}
		g := dag.New(raw.N)
		for _, e := range es {
			if err := g.AddEdge(e); err != nil {
				return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
			}
		}
		if err := g.Validate(); err != nil {
			return nil, err
		}
		doc.DAG = g
	case KindSkeleton:
		var es []graph.Edge
		if err := json.Unmarshal(edges, &es); err != nil {
			return nil, fmt.Errorf("decode edges: %w", err)
		}
		g := graph.New(raw.N)
		for _, e := range es {
			if e.U == e.V || e.U < 0 || e.V < 0 || e.U >= raw.N || e.V >= raw.N {
				return nil, fmt.Errorf("edge %d-%d: %w", e.U, e.V, ErrInvalidEdge)
			}
			g.AddEdge(e.U, e.V)
		}
		doc.Skeleton = g
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, raw.Kind)
	}
	return doc, nil
}

// ReadDAG decodes a "dag" document.
func ReadDAG(r io.Reader) (*dag.DAG, []string, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, nil, err
	}
	if doc.DAG == nil {
		return nil, nil, fmt.Errorf("%w: got %s, want %s", ErrWrongKind, doc.Kind, KindDAG)
	}
	return doc.DAG, doc.Names, nil
}

// ReadSkeleton decodes a "skeleton" document.
func ReadSkeleton(r io.Reader) (*graph.Graph, []string, error) {
	doc, err := ReadDocument(r)
	if err != nil {
		return nil, nil, err
	}
	if doc.Skeleton == nil {
		return nil, nil, fmt.Errorf("%w: got %s, want %s", ErrWrongKind, doc.Kind, KindSkeleton)
	}
	return doc.Skeleton, doc.Names, nil
}

// UnmarshalSkeleton decodes bytes written by MarshalSkeleton or
// WriteSkeleton.
func UnmarshalSkeleton(b []byte) (*graph.Graph, []string, error) {
	return ReadSkeleton(bytes.NewReader(b))
}

// ImportDocument reads a document of either kind from path.
func ImportDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// ImportDAG reads a "dag" document from path.
func ImportDAG(path string) (*dag.DAG, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDAG(f)
}

// ImportSkeleton reads a "skeleton" document from path.
func ImportSkeleton(path string) (*graph.Graph, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSkeleton(f)
}
