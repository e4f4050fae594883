package observability

import (
	"context"
	"testing"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	g := NoopGraphHooks{}
	g.OnSeed("id", "PRR", 1)
	g.OnAdvance("id", "PRR", 1, true)
	g.OnFinish("id", "PRR", 12)
	g.OnReset("id", "PRR")

	q := NoopQueryHooks{}
	q.OnQuery("PRR", "route_info", false)
	q.OnInvalidate("")

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "report")
	c.OnCacheMiss(ctx, "report")
	c.OnCacheSet(ctx, "report", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() should return NoopGraphHooks by default")
	}
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("Query() should return NoopQueryHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customGraph := &testGraphHooks{}
	SetGraphHooks(customGraph)
	if Graph() != customGraph {
		t.Error("SetGraphHooks should set custom hooks")
	}

	customQuery := &testQueryHooks{}
	SetQueryHooks(customQuery)
	if Query() != customQuery {
		t.Error("SetQueryHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Reset() should restore NoopGraphHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGraphHooks{}
	SetGraphHooks(custom)

	// Setting nil should be ignored
	SetGraphHooks(nil)
	SetQueryHooks(nil)
	SetCacheHooks(nil)

	if Graph() != custom {
		t.Error("SetGraphHooks(nil) should be ignored")
	}
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("SetQueryHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testGraphHooks struct{ NoopGraphHooks }
type testQueryHooks struct{ NoopQueryHooks }
type testCacheHooks struct{ NoopCacheHooks }

type countingGraphHooks struct {
	NoopGraphHooks
	steps int
}

func (h *countingGraphHooks) OnAdvance(string, string, int, bool) { h.steps++ }

type countingQueryHooks struct {
	NoopQueryHooks
	queries, invalidations int
}

func (h *countingQueryHooks) OnQuery(string, string, bool) { h.queries++ }
func (h *countingQueryHooks) OnInvalidate(string)          { h.invalidations++ }

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestAddHooksComposes(t *testing.T) {
	Reset()
	defer Reset()

	first, second := &countingGraphHooks{}, &countingGraphHooks{}
	SetGraphHooks(first)
	remove := AddGraphHooks(second)

	Graph().OnAdvance("id", "PRR", 1, true)
	Graph().OnAdvance("id", "PRR", 2, false)
	if first.steps != 2 || second.steps != 2 {
		t.Errorf("steps = %d/%d, want 2/2", first.steps, second.steps)
	}

	remove()
	if Graph() != first {
		t.Error("remove should restore the hooks registered before")
	}
	Graph().OnAdvance("id", "PRR", 3, true)
	if second.steps != 2 {
		t.Errorf("removed hooks still receive events: %d", second.steps)
	}
}

func TestAddHooksOverNoop(t *testing.T) {
	Reset()
	defer Reset()

	q := &countingQueryHooks{}
	removeQuery := AddQueryHooks(q)
	if Query() != q {
		t.Error("AddQueryHooks over the no-op default should register h directly")
	}
	Query().OnQuery("PRR", "route_info", false)
	Query().OnInvalidate("PRR")
	if q.queries != 1 || q.invalidations != 1 {
		t.Errorf("query events = %+v", q)
	}
	removeQuery()
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Error("remove should restore the no-op default")
	}

	a, b := &countingCacheHooks{}, &countingCacheHooks{}
	AddCacheHooks(a)
	AddCacheHooks(b)
	AddCacheHooks(nil)
	Cache().OnCacheHit(context.Background(), "report")
	if a.hits != 1 || b.hits != 1 {
		t.Errorf("cache hits = %d/%d, want 1/1", a.hits, b.hits)
	}
}
