// Package cli implements the trackgraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trackgraph/pkg/board"
	"github.com/matzehuels/trackgraph/pkg/buildinfo"
	"github.com/matzehuels/trackgraph/pkg/cache"
	"github.com/matzehuels/trackgraph/pkg/errors"
	"github.com/matzehuels/trackgraph/pkg/pipeline"
	"github.com/matzehuels/trackgraph/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "trackgraph"

	// defaultCache selects the on-disk report cache.
	defaultCache = "file"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Trackgraph explores rail networks on hex boards",
		Long:         `Trackgraph is a CLI tool for answering connectivity questions about 18xx-style hex boards: where a corporation can lay track, place tokens and run trains.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				registerLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stepCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the cache named by selector.
func (c *CLI) newRunner(ctx context.Context, selector string) (*pipeline.Runner, error) {
	cache, err := newCache(ctx, selector)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(ctx context.Context, selector string) (cache.Cache, error) {
	if selector == "" {
		selector = defaultCache
	}
	dir, err := cacheDir()
	if err != nil && selector == defaultCache {
		printWarning("Cache disabled: %v", err)
		return cache.NewNullCache(), nil
	}
	c, err := cache.Open(ctx, selector, dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrumented(c), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/trackgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// searchFlags are the search and query flags shared by every command.
type searchFlags struct {
	corp         string
	homeAsToken  bool
	noBlocking   bool
	skipTrack    []string
	checkTokens  bool
	checkRegions bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.homeAsToken, "home-as-token", false, "treat unplaced home cities as tokened")
	cmd.Flags().BoolVar(&f.noBlocking, "no-blocking", false, "ignore full cities when tracing")
	cmd.Flags().StringSliceVar(&f.skipTrack, "skip-track", nil, "track gauges to ignore: broad, narrow, dual")
	cmd.Flags().BoolVar(&f.checkTokens, "check-tokens", false, "require an unplaced token for tokenable cities")
	cmd.Flags().BoolVar(&f.checkRegions, "check-regions", false, "restrict connected hexes to operating regions")
}

// registerCorp adds the required --corp flag.
func (f *searchFlags) registerCorp(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.corp, "corp", "c", "", "corporation id (required)")
	_ = cmd.MarkFlagRequired("corp")
}

// options converts the flags into pipeline options.
func (f *searchFlags) options() pipeline.Options {
	return pipeline.Options{
		Corporation:  f.corp,
		HomeAsToken:  f.homeAsToken,
		NoBlocking:   f.noBlocking,
		SkipTrack:    f.skipTrack,
		CheckTokens:  f.checkTokens,
		CheckRegions: f.checkRegions,
	}
}

// loadBoard reads a board scenario, mapping failures to error codes.
func loadBoard(path string) (*board.Board, error) {
	if err := errors.ValidateBoardPath(path); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "board %s", path)
	}
	b, err := board.LoadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBoard, err, "load board")
	}
	return b, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	return strings.Split(s, ",")
}
