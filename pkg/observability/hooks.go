// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register
// hooks at startup to receive events about graph searches, adapter
// queries and report cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import
// cycles and keeps the search packages free of metrics frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGraphHooks(&myGraphHooks{})
//	    observability.SetQueryHooks(&myQueryHooks{})
//	    // ... run application
//	}
//
// Hooks added with [AddGraphHooks] and friends receive events alongside
// the ones already registered:
//
//	remove := observability.AddGraphHooks(progress)
//	defer remove()
//
// Libraries call hooks to emit events:
//
//	observability.Graph().OnAdvance(id, corp, step, processed)
//	observability.Query().OnQuery(corp, "route_info", memoized)
package observability

import (
	"context"
	"sync"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from incremental graph searches. Graph IDs
// are unique per search instance.
type GraphHooks interface {
	// OnSeed is called after (re)initialization with the number of seeds.
	OnSeed(graphID, corp string, seeds int)

	// OnAdvance is called after every step. processed is false when the
	// dequeued item was redundant.
	OnAdvance(graphID, corp string, step int, processed bool)

	// OnFinish is called once when the queue empties.
	OnFinish(graphID, corp string, steps int)

	// OnReset is called when the search is reinitialized.
	OnReset(graphID, corp string)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from the adapter's query façade.
type QueryHooks interface {
	// OnQuery records a query; memoized is true when answered from cache.
	OnQuery(corp, query string, memoized bool)

	// OnInvalidate records that a corporation's cached state was dropped.
	OnInvalidate(corp string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from report cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnSeed(string, string, int)          {}
func (NoopGraphHooks) OnAdvance(string, string, int, bool) {}
func (NoopGraphHooks) OnFinish(string, string, int)        {}
func (NoopGraphHooks) OnReset(string, string)              {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQuery(string, string, bool) {}
func (NoopQueryHooks) OnInvalidate(string)          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks GraphHooks = NoopGraphHooks{}
	queryHooks QueryHooks = NoopQueryHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any search runs.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetQueryHooks registers custom query hooks.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// AddGraphHooks registers h alongside the graph hooks already in place.
// The returned function restores the hooks registered before the call.
func AddGraphHooks(h GraphHooks) (remove func()) {
	if h == nil {
		return func() {}
	}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prev := graphHooks
	if _, noop := prev.(NoopGraphHooks); noop {
		graphHooks = h
	} else {
		graphHooks = graphFanout{prev, h}
	}
	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		graphHooks = prev
	}
}

// AddQueryHooks registers h alongside the query hooks already in place.
func AddQueryHooks(h QueryHooks) (remove func()) {
	if h == nil {
		return func() {}
	}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prev := queryHooks
	if _, noop := prev.(NoopQueryHooks); noop {
		queryHooks = h
	} else {
		queryHooks = queryFanout{prev, h}
	}
	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		queryHooks = prev
	}
}

// AddCacheHooks registers h alongside the cache hooks already in place.
func AddCacheHooks(h CacheHooks) (remove func()) {
	if h == nil {
		return func() {}
	}
	hooksMu.Lock()
	defer hooksMu.Unlock()
	prev := cacheHooks
	if _, noop := prev.(NoopCacheHooks); noop {
		cacheHooks = h
	} else {
		cacheHooks = cacheFanout{prev, h}
	}
	return func() {
		hooksMu.Lock()
		defer hooksMu.Unlock()
		cacheHooks = prev
	}
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	queryHooks = NoopQueryHooks{}
	cacheHooks = NoopCacheHooks{}
}

// =============================================================================
// Fan-out
// =============================================================================

type graphFanout []GraphHooks

func (f graphFanout) OnSeed(id, corp string, seeds int) {
	for _, h := range f {
		h.OnSeed(id, corp, seeds)
	}
}

func (f graphFanout) OnAdvance(id, corp string, step int, processed bool) {
	for _, h := range f {
		h.OnAdvance(id, corp, step, processed)
	}
}

func (f graphFanout) OnFinish(id, corp string, steps int) {
	for _, h := range f {
		h.OnFinish(id, corp, steps)
	}
}

func (f graphFanout) OnReset(id, corp string) {
	for _, h := range f {
		h.OnReset(id, corp)
	}
}

type queryFanout []QueryHooks

func (f queryFanout) OnQuery(corp, query string, memoized bool) {
	for _, h := range f {
		h.OnQuery(corp, query, memoized)
	}
}

func (f queryFanout) OnInvalidate(corp string) {
	for _, h := range f {
		h.OnInvalidate(corp)
	}
}

type cacheFanout []CacheHooks

func (f cacheFanout) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheHit(ctx, keyType)
	}
}

func (f cacheFanout) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range f {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (f cacheFanout) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range f {
		h.OnCacheSet(ctx, keyType, size)
	}
}
