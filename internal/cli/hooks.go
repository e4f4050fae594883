package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackgraph/pkg/observability"
)

// logHooks forwards search, query and cache events to a debug logger.
type logHooks struct {
	logger *log.Logger
}

func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l.WithPrefix("hooks")}
	observability.SetGraphHooks(h)
	observability.SetQueryHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnSeed(id, corp string, seeds int) {
	h.logger.Debug("seeded", "graph", id, "corp", corp, "seeds", seeds)
}

// OnAdvance is too chatty to log; the stepper shows each step instead.
func (h logHooks) OnAdvance(string, string, int, bool) {}

func (h logHooks) OnFinish(id, corp string, steps int) {
	h.logger.Debug("finished", "graph", id, "corp", corp, "steps", steps)
}

func (h logHooks) OnReset(id, corp string) {
	h.logger.Debug("reset", "graph", id, "corp", corp)
}

func (h logHooks) OnQuery(corp, query string, memoized bool) {
	h.logger.Debug("query", "corp", corp, "query", query, "memoized", memoized)
}

func (h logHooks) OnInvalidate(corp string) {
	h.logger.Debug("invalidate", "corp", corp)
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}
