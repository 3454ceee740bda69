package citest

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/rcd/pkg/data"
)

// Stats counts CI test traffic through a [Memo].
type Stats struct {
	// Queries is the number of Independent calls.
	Queries int64 `json:"queries"`
	// Evaluations is the number of calls forwarded to the wrapped test.
	Evaluations int64 `json:"evaluations"`
}

// Hits returns the number of queries answered from the memo.
func (s Stats) Hits() int64 { return s.Queries - s.Evaluations }

// Memo wraps a Test, remembering answers and counting queries.
//
// Queries are keyed by the unordered pair {x, y} and the sorted conditioning
// set, so symmetric or reordered repeats are free. A Memo must only be used
// with a single dataset. It is safe for concurrent use.
type Memo struct {
	inner Test

	mu      sync.RWMutex
	answers map[string]bool

	queries     atomic.Int64
	evaluations atomic.Int64
}

// NewMemo wraps t.
func NewMemo(t Test) *Memo {
	return &Memo{inner: t, answers: make(map[string]bool)}
}

// Independent answers from the memo or forwards to the wrapped test.
func (m *Memo) Independent(x, y int, z []int, d data.Dataset) bool {
	m.queries.Add(1)
	key := queryKey(x, y, z)

	m.mu.RLock()
	ans, ok := m.answers[key]
	m.mu.RUnlock()
	if ok {
		return ans
	}

	m.evaluations.Add(1)
	ans = m.inner.Independent(x, y, z, d)

	m.mu.Lock()
	m.answers[key] = ans
	m.mu.Unlock()
	return ans
}

// Name returns the wrapped test's name.
func (m *Memo) Name() string { return NameOf(m.inner) }

// Stats returns a snapshot of the counters.
func (m *Memo) Stats() Stats {
	return Stats{Queries: m.queries.Load(), Evaluations: m.evaluations.Load()}
}

func queryKey(x, y int, z []int) string {
	if x > y {
		x, y = y, x
	}
	zs := slices.Clone(z)
	slices.Sort(zs)

	var b strings.Builder
	b.WriteString(strconv.Itoa(x))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(y))
	b.WriteByte('|')
	for i, v := range zs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}
