package skeleton

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/rcd/pkg/citest"
	"github.com/matzehuels/rcd/pkg/dag"
	"github.com/matzehuels/rcd/pkg/data"
	"github.com/matzehuels/rcd/pkg/graph"
	"github.com/matzehuels/rcd/pkg/markov"
	"github.com/matzehuels/rcd/pkg/sim"
)

type learnFunc func(context.Context, citest.Test, data.Dataset, Options) (*graph.Graph, error)

var allLearners = []struct {
	name  string
	learn learnFunc
}{
	{AlgorithmLMarvel, LearnLMarvel},
	{AlgorithmRSLW, LearnRSLW},
}

func buildDAG(t *testing.T, n int, edges ...[2]int) *dag.DAG {
	t.Helper()
	g := dag.New(n)
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%v): %v", e, err)
		}
	}
	return g
}

func TestChainScenario(t *testing.T) {
	g := buildDAG(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})
	want := graph.FromEdges(4, []graph.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}})

	for _, l := range allLearners {
		t.Run(l.name, func(t *testing.T) {
			got, err := l.learn(context.Background(), citest.NewPerfect(g), data.Size(4), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(want) {
				t.Errorf("skeleton = %v, want %v", got.Edges(), want.Edges())
			}
		})
	}
}

func TestDisconnectedVariable(t *testing.T) {
	// 0 → 1 → 2, 3 → 2, 3 → 4; variable 5 is independent of everything.
	g := buildDAG(t, 6, [2]int{0, 1}, [2]int{1, 2}, [2]int{3, 2}, [2]int{3, 4})

	for _, l := range allLearners {
		t.Run(l.name, func(t *testing.T) {
			got, err := l.learn(context.Background(), citest.NewPerfect(g), data.Size(6), Options{})
			if err != nil {
				t.Fatal(err)
			}
			if got.Degree(5) != 0 {
				t.Errorf("variable 5 has neighbors %v, want none", got.Neighbors(5))
			}
			if !got.Equal(g.Skeleton()) {
				t.Errorf("skeleton = %v, want %v", got.Edges(), g.Skeleton().Edges())
			}
		})
	}
}

func TestCollidersAndCycles(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
	}{
		{"collider", 3, [][2]int{{0, 2}, {1, 2}}},
		{"four cycle", 4, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}},
		{"shared co-parents", 5, [][2]int{{0, 3}, {1, 3}, {1, 4}, {2, 4}}},
		{"fork and collider", 5, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {3, 4}}},
		{"empty", 3, nil},
	}
	for _, tt := range tests {
		g := buildDAG(t, tt.n, tt.edges...)
		for _, l := range allLearners {
			t.Run(tt.name+"/"+l.name, func(t *testing.T) {
				got, err := l.learn(context.Background(), citest.NewPerfect(g), data.Size(tt.n), Options{})
				if err != nil {
					t.Fatal(err)
				}
				if !got.Equal(g.Skeleton()) {
					t.Errorf("skeleton = %v, want %v", got.Edges(), g.Skeleton().Edges())
				}
			})
		}
	}
}

func TestPerfectOracleRandomGraphs(t *testing.T) {
	rng := sim.NewRand(2308)
	for i := 0; i < 15; i++ {
		g, err := sim.ErdosRenyi(12, 0, rng)
		if err != nil {
			t.Fatal(err)
		}
		oracle := citest.NewPerfect(g)

		lm, err := LearnLMarvel(context.Background(), oracle, data.Size(12), Options{Finder: markov.FromDAG(g)})
		if err != nil {
			t.Fatal(err)
		}
		if s := graph.Score(g.Skeleton(), lm); s.F1 != 1 {
			t.Errorf("graph %d: L-MARVEL F1 = %v, want 1", i, s.F1)
		}

		if !diamondFree(g.Skeleton()) {
			continue
		}
		rs, err := LearnRSLW(context.Background(), oracle, data.Size(12), Options{})
		if err != nil {
			t.Fatal(err)
		}
		if s := graph.Score(g.Skeleton(), rs); s.F1 != 1 {
			t.Errorf("graph %d: RSL-W F1 = %v, want 1", i, s.F1)
		}
	}
}

// diamondFree reports whether no edge has two common neighbors.
func diamondFree(g *graph.Graph) bool {
	for _, e := range g.Edges() {
		common := 0
		for _, u := range g.Neighbors(e.U) {
			if g.HasEdge(u, e.V) {
				common++
			}
		}
		if common >= 2 {
			return false
		}
	}
	return true
}

func TestFisherZRecovery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping data-driven recovery in short mode")
	}
	const n = 20
	rng := sim.NewRand(2308)
	test := citest.NewFisherZ(1.0 / (n * n))
	for i := 0; i < 10; i++ {
		g, err := sim.ErdosRenyi(n, 1.0/n, rng)
		if err != nil {
			t.Fatal(err)
		}
		d, err := sim.GaussianData(g, 50*n, rng)
		if err != nil {
			t.Fatal(err)
		}
		for _, l := range allLearners {
			learned, err := l.learn(context.Background(), test, d, Options{})
			if err != nil {
				t.Fatalf("graph %d: %s: %v", i, l.name, err)
			}
			if f1 := graph.Score(g.Skeleton(), learned).F1; f1 < 0.94 {
				t.Errorf("graph %d: %s F1 = %.3f, want >= 0.94", i, l.name, f1)
			}
		}
	}
}

func TestLMarvelGreedyPerfectOracle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dense perfect-oracle graphs in short mode")
	}
	const n = 20
	rng := sim.NewRand(2308)
	for i := 0; i < 10; i++ {
		g, err := sim.ErdosRenyi(n, 2*math.Log(n)/n, rng)
		if err != nil {
			t.Fatal(err)
		}
		oracle := citest.NewMemo(citest.NewPerfect(g))
		learned, err := LearnLMarvel(context.Background(), oracle, data.Size(n), Options{})
		if err != nil {
			t.Fatal(err)
		}
		if s := graph.Score(g.Skeleton(), learned); s.F1 != 1 {
			t.Errorf("graph %d: F1 = %v, want 1", i, s.F1)
		}
	}
}

func TestCliqueBoundViolationTerminates(t *testing.T) {
	// Triangle 0 → 1 → 2, 0 → 2 plus a tail 2 → 3.
	g := buildDAG(t, 4, [2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{2, 3})
	got, err := LearnRSLW(context.Background(), citest.NewPerfect(g), data.Size(4), Options{CliqueNumber: 1})
	if err != nil {
		t.Fatalf("LearnRSLW() error = %v", err)
	}
	if got.NumVars() != 4 {
		t.Errorf("NumVars() = %d, want 4", got.NumVars())
	}
}

// countingTest counts queries and records the edge count of the working
// graph it is attached to, to observe monotonic shrink.
type countingTest struct {
	inner   citest.Test
	calls   int
	s       **state
	history []int
}

func (c *countingTest) Independent(x, y int, z []int, d data.Dataset) bool {
	c.calls++
	if *c.s != nil {
		c.history = append(c.history, (*c.s).g.EdgeCount())
	}
	return c.inner.Independent(x, y, z, d)
}

func TestMonotonicShrinkAndIterations(t *testing.T) {
	rng := sim.NewRand(11)
	g, _ := sim.ErdosRenyi(10, 0.3, rng)

	var s *state
	ct := &countingTest{inner: citest.NewPerfect(g), s: &s}
	mb, err := boundaries(context.Background(), ct, data.Size(10), Options{})
	if err != nil {
		t.Fatal(err)
	}
	s = newState(AlgorithmLMarvel, ct, data.Size(10), mb, Options{}.logger())

	iterations := 0
	for s.g.NumActive() > 0 {
		before := s.g.EdgeCount()
		v := s.selectVar(lmarvel{})
		if !s.g.Active(v) {
			t.Fatalf("selected inactive variable %d", v)
		}
		s.eliminate(v)
		iterations++
		if s.g.EdgeCount() > before {
			t.Fatalf("edge count grew from %d to %d", before, s.g.EdgeCount())
		}
	}
	if iterations != 10 {
		t.Errorf("iterations = %d, want 10", iterations)
	}
	for i := 1; i < len(ct.history); i++ {
		if ct.history[i] > ct.history[i-1] {
			t.Fatalf("edge count grew between queries: %v", ct.history[i-1:i+1])
		}
	}
}

func TestShrunkBoundaryPruning(t *testing.T) {
	// 0 → 1 → 2: eliminating 0 shrinks MB(1) and leaves MB(2) alone.
	g := buildDAG(t, 3, [2]int{0, 1}, [2]int{1, 2})
	oracle := citest.NewPerfect(g)

	tests := []struct {
		name       string
		r          rules
		wantPruned bool
	}{
		{AlgorithmLMarvel, lmarvel{}, true},
		{AlgorithmRSLW, rslw{k: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mb, err := boundaries(context.Background(), oracle, data.Size(3), Options{Finder: markov.FromDAG(g)})
			if err != nil {
				t.Fatal(err)
			}
			s := newState(tt.name, oracle, data.Size(3), mb, Options{}.logger())
			s.reprune = tt.r.reprunes()
			for v := range s.pruned {
				s.pruned[v] = true
			}

			s.eliminate(0)
			if s.pruned[1] != tt.wantPruned {
				t.Errorf("pruned[1] = %v, want %v", s.pruned[1], tt.wantPruned)
			}
			if !s.dirty[1] {
				t.Error("variable 1 should be rechecked after its boundary shrank")
			}
			if !s.pruned[2] {
				t.Error("variable 2 kept its boundary and should stay pruned")
			}
		})
	}
}

func TestOutputSymmetricNoSelfLoops(t *testing.T) {
	rng := sim.NewRand(3)
	g, _ := sim.ErdosRenyi(9, 0.35, rng)
	d, _ := sim.GaussianData(g, 300, rng)

	for _, l := range allLearners {
		got, err := l.learn(context.Background(), citest.NewFisherZ(0.05), d, Options{CliqueNumber: 3})
		if err != nil {
			t.Fatal(err)
		}
		for v := range got.NumVars() {
			if got.HasEdge(v, v) {
				t.Errorf("%s: self-loop at %d", l.name, v)
			}
			for _, u := range got.Neighbors(v) {
				if !got.HasEdge(u, v) {
					t.Errorf("%s: edge %d–%d is not symmetric", l.name, v, u)
				}
			}
		}
	}
}

func TestInconsistentOracleTerminates(t *testing.T) {
	// Answers by the parity of the conditioning set, which no distribution
	// does. The loop must still finish after n eliminations.
	odd := citest.Func(func(x, y int, z []int, _ data.Dataset) bool { return len(z)%2 == 1 })
	for _, l := range allLearners {
		got, err := l.learn(context.Background(), odd, data.Size(5), Options{})
		if err != nil {
			t.Fatalf("%s: %v", l.name, err)
		}
		if got.NumVars() != 5 {
			t.Errorf("%s: NumVars() = %d, want 5", l.name, got.NumVars())
		}
	}
}

func TestInvalidInput(t *testing.T) {
	oracle := citest.NewPerfect(dag.New(3))
	ctx := context.Background()

	for _, l := range allLearners {
		if _, err := l.learn(ctx, nil, data.Size(3), Options{}); !errors.Is(err, ErrNilTest) {
			t.Errorf("%s: nil test error = %v, want ErrNilTest", l.name, err)
		}
		if _, err := l.learn(ctx, oracle, nil, Options{}); !errors.Is(err, ErrNilData) {
			t.Errorf("%s: nil data error = %v, want ErrNilData", l.name, err)
		}
		if _, err := l.learn(ctx, oracle, data.Size(0), Options{}); !errors.Is(err, ErrEmptyUniverse) {
			t.Errorf("%s: n=0 error = %v, want ErrEmptyUniverse", l.name, err)
		}
		bad := Options{Boundaries: markov.NewMatrix(2)}
		if _, err := l.learn(ctx, oracle, data.Size(3), bad); !errors.Is(err, ErrBoundarySize) {
			t.Errorf("%s: mismatched boundaries error = %v, want ErrBoundarySize", l.name, err)
		}
	}
	if _, err := LearnRSLW(ctx, oracle, data.Size(3), Options{CliqueNumber: -1}); !errors.Is(err, ErrInvalidCliqueNumber) {
		t.Errorf("negative clique number error = %v, want ErrInvalidCliqueNumber", err)
	}
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := buildDAG(t, 3, [2]int{0, 1})
	// Precomputed boundaries skip the finder, so the loop itself sees the
	// cancellation.
	opts := Options{Boundaries: markov.FromBoundaries([][]int{{1}, {0}, {}})}
	if _, err := LearnLMarvel(ctx, citest.NewPerfect(g), data.Size(3), opts); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBoundariesOptionNotModified(t *testing.T) {
	g := buildDAG(t, 3, [2]int{0, 2}, [2]int{1, 2})
	mb, _ := markov.FromDAG(g).Find(context.Background(), nil, nil)
	before := mb.Clone()
	if _, err := LearnLMarvel(context.Background(), citest.NewPerfect(g), data.Size(3), Options{Boundaries: mb}); err != nil {
		t.Fatal(err)
	}
	if !mb.Equal(before) {
		t.Error("Options.Boundaries was modified")
	}
}

func TestNew(t *testing.T) {
	for _, name := range Algorithms() {
		l, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if l.Name() != name {
			t.Errorf("Name() = %q, want %q", l.Name(), name)
		}
	}
	if _, err := New("pc"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("New(pc) error = %v, want ErrUnknownAlgorithm", err)
	}
	if !slices.Equal(Algorithms(), []string{"lmarvel", "rslw"}) {
		t.Errorf("Algorithms() = %v", Algorithms())
	}
}
