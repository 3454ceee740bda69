package sim

import (
	"errors"
	"math"
	"testing"
)

func TestErdosRenyiIsAcyclic(t *testing.T) {
	rng := NewRand(7)
	for i := 0; i < 20; i++ {
		g, err := ErdosRenyi(15, 0.3, rng)
		if err != nil {
			t.Fatal(err)
		}
		if err := g.Validate(); err != nil {
			t.Fatalf("graph %d: Validate() = %v", i, err)
		}
	}
}

func TestErdosRenyiDeterministic(t *testing.T) {
	a, _ := ErdosRenyi(12, 0, NewRand(42))
	b, _ := ErdosRenyi(12, 0, NewRand(42))
	if !a.Skeleton().Equal(b.Skeleton()) {
		t.Error("same seed should give the same graph")
	}
}

func TestErdosRenyiEdgeDensity(t *testing.T) {
	rng := NewRand(1)
	const n, trials = 30, 40
	p := 0.2
	total := 0
	for i := 0; i < trials; i++ {
		g, _ := ErdosRenyi(n, p, rng)
		total += g.EdgeCount()
	}
	mean := float64(total) / trials
	want := p * n * (n - 1) / 2
	if math.Abs(mean-want) > 0.15*want {
		t.Errorf("mean edge count = %.1f, want about %.1f", mean, want)
	}
}

func TestDefaultEdgeProb(t *testing.T) {
	if DefaultEdgeProb(1) != 0 {
		t.Error("DefaultEdgeProb(1) should be 0")
	}
	if got, want := DefaultEdgeProb(10), math.Log(10)/10; got != want {
		t.Errorf("DefaultEdgeProb(10) = %v, want %v", got, want)
	}
}

func TestSampleShape(t *testing.T) {
	rng := NewRand(3)
	g, _ := ErdosRenyi(5, 0.5, rng)
	m, err := GaussianData(g, 200, rng)
	if err != nil {
		t.Fatal(err)
	}
	if m.NumVars() != 5 || m.NumSamples() != 200 {
		t.Errorf("shape = %dx%d, want 200x5", m.NumSamples(), m.NumVars())
	}
}

func TestSampleInvalid(t *testing.T) {
	g, _ := ErdosRenyi(3, 0.5, NewRand(1))
	if _, err := GaussianData(g, 0, NewRand(1)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("GaussianData(samples=0) error = %v, want ErrInvalidSize", err)
	}
	if _, err := ErdosRenyi(-1, 0.5, NewRand(1)); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("ErdosRenyi(-1) error = %v, want ErrInvalidSize", err)
	}
}
