// Package observability provides hooks for metrics, tracing, and logging.
//
// Learners, caches and the HTTP server emit events through globally
// registered hooks. The defaults are no-ops, so library code can call them
// unconditionally and binaries opt in by registering their own
// implementations at startup:
//
//	func main() {
//	    observability.SetLearnHooks(&myLearnHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Learn().OnLearnStart(ctx, "lmarvel", n)
//	// ... learn ...
//	observability.Learn().OnLearnComplete(ctx, "lmarvel", edges, queries, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Learn Hooks
// =============================================================================

// LearnHooks receives events from boundary discovery and skeleton learning.
type LearnHooks interface {
	// Boundary discovery events
	OnBoundaryStart(ctx context.Context, finder string, numVars int)
	OnBoundaryComplete(ctx context.Context, finder string, duration time.Duration, err error)

	// Learner events
	OnLearnStart(ctx context.Context, algorithm string, numVars int)
	OnEliminate(ctx context.Context, algorithm string, variable, remaining int)
	OnLearnComplete(ctx context.Context, algorithm string, edges int, queries int64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLearnHooks is a no-op implementation of LearnHooks.
type NoopLearnHooks struct{}

func (NoopLearnHooks) OnBoundaryStart(context.Context, string, int)                     {}
func (NoopLearnHooks) OnBoundaryComplete(context.Context, string, time.Duration, error) {}
func (NoopLearnHooks) OnLearnStart(context.Context, string, int)                        {}
func (NoopLearnHooks) OnEliminate(context.Context, string, int, int)                    {}
func (NoopLearnHooks) OnLearnComplete(context.Context, string, int, int64, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	learnHooks LearnHooks = NoopLearnHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetLearnHooks registers custom learner hooks.
// This should be called once at application startup before any learning.
func SetLearnHooks(h LearnHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		learnHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Learn returns the registered learner hooks.
func Learn() LearnHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return learnHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	learnHooks = NoopLearnHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
