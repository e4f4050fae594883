package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackgraph/pkg/adapter"
	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/cache"
	"github.com/matzehuels/trackgraph/pkg/graph"
	"github.com/matzehuels/trackgraph/pkg/render"
	"github.com/matzehuels/trackgraph/pkg/report"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Every call
// builds its own adapter, so multiple goroutines can safely use the same
// Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the report and render stages.
func (r *Runner) Execute(ctx context.Context, b *board.Board, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	reportStart := time.Now()
	rep, hit, err := r.ReportWithCacheInfo(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	result.Report = rep
	result.Stats.ReportTime = time.Since(reportStart)
	result.CacheInfo.ReportHit = hit

	r.Logger.Info("computed report",
		"corp", opts.Corporation,
		"steps", rep.Steps,
		"nodes", len(rep.ConnectedNodes),
		"cached", hit,
		"duration", result.Stats.ReportTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ReportWithCacheInfo computes the connectivity report with caching and
// returns cache hit info.
func (r *Runner) ReportWithCacheInfo(ctx context.Context, b *board.Board, opts Options) (report.Report, bool, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return report.Report{}, false, err
	}
	if err := checkCorporation(b, opts.Corporation); err != nil {
		return report.Report{}, false, err
	}

	cacheKey := r.Keyer.ReportKey(b.Digest(), opts.Corporation, opts.ReportKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			if rep, err := report.Unmarshal(data); err == nil {
				return rep, true, nil
			}
		}
	}

	a := adapter.New(b, b, opts.AdapterOptions())
	rep := report.Build(a, b, board.CorpID(opts.Corporation))

	if data, err := report.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLReport); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return rep, false, nil
}

// Report is a convenience wrapper that calls ReportWithCacheInfo and discards the cache hit info.
func (r *Runner) Report(ctx context.Context, b *board.Board, opts Options) (report.Report, error) {
	rep, _, err := r.ReportWithCacheInfo(ctx, b, opts)
	return rep, err
}

// RenderWithCacheInfo draws the search state at opts.Step in every
// requested format, with caching, and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, b *board.Board, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := checkCorporation(b, opts.Corporation); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(b.Digest(), opts.Corporation, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	g := graph.New(b, b, board.CorpID(opts.Corporation), opts.GraphOptions(true))
	if opts.Step > 0 {
		g.AdvanceTo(opts.Step)
	} else {
		g.AdvanceToEnd()
	}
	dot := render.ToDOT(b, g, render.Options{Detailed: opts.Detailed})

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(ctx, dot, format)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data

		key := r.Keyer.ArtifactKey(b.Digest(), opts.Corporation, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, b *board.Board, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, b, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
