package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLearnHooks{}
	l.OnBoundaryStart(ctx, "greedy", 10)
	l.OnBoundaryComplete(ctx, "greedy", time.Second, nil)
	l.OnLearnStart(ctx, "lmarvel", 10)
	l.OnEliminate(ctx, "lmarvel", 3, 9)
	l.OnLearnComplete(ctx, "lmarvel", 12, 4000, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "mb")
	c.OnCacheMiss(ctx, "skeleton")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/skeleton")
	h.OnResponse(ctx, "POST", "/v1/skeleton", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Learn().(NoopLearnHooks); !ok {
		t.Error("Learn() should return NoopLearnHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customLearn := &testLearnHooks{}
	SetLearnHooks(customLearn)
	if Learn() != customLearn {
		t.Error("SetLearnHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Learn().(NoopLearnHooks); !ok {
		t.Error("Reset() should restore NoopLearnHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testLearnHooks{}
	SetLearnHooks(custom)
	SetLearnHooks(nil)

	if Learn() != custom {
		t.Error("SetLearnHooks(nil) should be ignored")
	}
}

type testLearnHooks struct{ NoopLearnHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestMetricsHooks(t *testing.T) {
	defer Reset()
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Install()

	ctx := context.Background()
	Learn().OnBoundaryComplete(ctx, "greedy", 20*time.Millisecond, nil)
	Learn().OnEliminate(ctx, "rslw", 2, 4)
	Learn().OnEliminate(ctx, "rslw", 3, 3)
	Learn().OnLearnComplete(ctx, "rslw", 7, 120, time.Second, nil)
	Learn().OnLearnComplete(ctx, "rslw", 0, 0, time.Second, errors.New("canceled"))
	Cache().OnCacheHit(ctx, "mb")
	Cache().OnCacheSet(ctx, "skeleton", 512)
	HTTP().OnResponse(ctx, "POST", "/v1/skeleton", 200, time.Millisecond)

	if got := testutil.ToFloat64(m.eliminations.WithLabelValues("rslw")); got != 2 {
		t.Errorf("eliminations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ciTests.WithLabelValues("rslw")); got != 120 {
		t.Errorf("ci queries = %v, want 120", got)
	}
	if got := testutil.ToFloat64(m.learnRuns.WithLabelValues("rslw", "error")); got != 1 {
		t.Errorf("failed runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cacheBytes.WithLabelValues("skeleton")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/v1/skeleton", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "rcd_boundary_runs_total") {
		t.Error("metrics output missing rcd_boundary_runs_total")
	}
}
