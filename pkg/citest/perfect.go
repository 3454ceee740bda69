package citest

import (
	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
)

// Perfect is an oracle that answers from d-separation in a known DAG.
// Under faithfulness it is exactly the CI relation of the data, so learners
// using it must recover the true skeleton. The dataset argument is ignored.
type Perfect struct {
	g *dag.DAG
}

// NewPerfect returns a perfect oracle for g.
func NewPerfect(g *dag.DAG) *Perfect { return &Perfect{g: g} }

// Independent reports whether x and y are d-separated by z.
func (p *Perfect) Independent(x, y int, z []int, _ data.Dataset) bool {
	return p.g.DSeparated(x, y, z)
}

// Name returns "perfect".
func (p *Perfect) Name() string { return "perfect" }

// Graph returns the underlying DAG.
func (p *Perfect) Graph() *dag.DAG { return p.g }
