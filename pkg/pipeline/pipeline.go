// Package pipeline runs the report and render stages for a corporation on
// a board, with caching. The CLI and the HTTP API both use it so they
// share one definition of options, defaults and cache keys.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Report: Run every connectivity query and collect a [report.Report]
//  2. Render: Draw the board and the search state at a step (DOT, SVG, PNG, PDF)
//
// Both stages are keyed by the board digest, so editing the board never
// serves a stale result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, b, pipeline.Options{
//	    Corporation: "PRR",
//	    Formats:     []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackgraph/pkg/adapter"
	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/cache"
	"github.com/matzehuels/trackgraph/pkg/errors"
	"github.com/matzehuels/trackgraph/pkg/graph"
	"github.com/matzehuels/trackgraph/pkg/render"
	"github.com/matzehuels/trackgraph/pkg/report"
)

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	Corporation string `json:"corporation"`

	// Search options
	HomeAsToken  bool     `json:"home_as_token,omitempty"`
	NoBlocking   bool     `json:"no_blocking,omitempty"`
	SkipTrack    []string `json:"skip_track,omitempty"`
	CheckTokens  bool     `json:"check_tokens,omitempty"`
	CheckRegions bool     `json:"check_regions,omitempty"`
	Refresh      bool     `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Step     int      `json:"step,omitempty"` // 0 renders the finished search
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Report is the connectivity report.
	Report report.Report

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ReportTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ReportHit bool // Whether the report came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !render.ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg, png, pdf)", f)
		}
	}
	return nil
}

// Validate checks required fields and applies defaults.
func (o *Options) Validate() error {
	if err := errors.ValidateCorporationID(o.Corporation); err != nil {
		return err
	}
	if _, err := o.skipTrack(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "skip_track")
	}
	if o.Step < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "step must not be negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) skipTrack() ([]board.TrackType, error) {
	var out []board.TrackType
	for _, s := range o.SkipTrack {
		t, err := board.ParseTrackType(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GraphOptions returns the search configuration.
func (o *Options) GraphOptions(visualize bool) graph.Options {
	skip, _ := o.skipTrack()
	return graph.Options{
		Visualize:   visualize,
		HomeAsToken: o.HomeAsToken,
		NoBlocking:  o.NoBlocking,
		SkipTrack:   skip,
		Logger:      o.Logger,
	}
}

// AdapterOptions returns the query configuration.
func (o *Options) AdapterOptions() adapter.Options {
	return adapter.Options{
		Graph:        o.GraphOptions(false),
		CheckTokens:  o.CheckTokens,
		CheckRegions: o.CheckRegions,
		Logger:       o.Logger,
	}
}

// ReportKeyOpts returns cache key options for the report.
func (o *Options) ReportKeyOpts() cache.ReportKeyOpts {
	return cache.ReportKeyOpts{
		HomeAsToken:  o.HomeAsToken,
		NoBlocking:   o.NoBlocking,
		SkipTrack:    o.SkipTrack,
		CheckTokens:  o.CheckTokens,
		CheckRegions: o.CheckRegions,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Step:     o.Step,
		Detailed: o.Detailed,
		Search:   o.ReportKeyOpts(),
	}
}

// checkCorporation reports an unknown corporation as not found.
func checkCorporation(b *board.Board, corp string) error {
	if _, ok := b.Corporation(board.CorpID(corp)); !ok {
		return errors.New(errors.ErrCodeCorporationNotFound, "unknown corporation: %s", corp)
	}
	return nil
}
