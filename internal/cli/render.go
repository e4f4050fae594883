package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackgraph/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	search   searchFlags
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "dot", "svg", "png", "pdf"
	step     int      // search step to draw; 0 draws the finished search
	detailed bool     // label paths with track and cities with slot usage
	cache    string
	refresh  bool
}

// renderCommand creates the render command for drawing a board and the
// search state of one corporation.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [board.toml]",
		Short: "Draw a corporation's network as DOT, SVG, PNG or PDF",
		Long: `Render draws every hex of the board with its nodes and paths, colored by
how far the corporation's search has got. Use --step to draw an
intermediate state of the search.`,
		Example: `  trackgraph render 1830.toml --corp PRR
  trackgraph render 1830.toml --corp PRR --step 12 -f svg,png -o prr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	opts.search.registerCorp(cmd)
	opts.search.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, pdf (comma-separated)")
	cmd.Flags().IntVar(&opts.step, "step", 0, "search step to draw (0 draws the finished search)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show track types and city slots")
	cmd.Flags().StringVar(&opts.cache, "cache", defaultCache, "artifact cache: none, file, redis://..., mongodb://...")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	b, err := loadBoard(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.search.options()
	popts.Formats = opts.formats
	popts.Step = opts.step
	popts.Detailed = opts.detailed
	popts.Refresh = opts.refresh
	popts.Logger = logger

	spinner := newSearchSpinner(ctx, os.Stderr, "Rendering "+filepath.Base(input), opts.search.corp)
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, b, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %s for %s", filepath.Base(input), StyleHighlight.Render(opts.search.corp))
	if hit {
		printDetail("served from cache")
	}

	base := basePath(opts.output, input)
	formats := slices.Sorted(maps.Keys(artifacts))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("wrote artifact", "path", path, "bytes", len(artifacts[format]))
		printFile(path)
	}

	if slices.Contains(formats, render.FormatSVG) && opts.step == 0 {
		printNextStep("Walk through the search", fmt.Sprintf("%s step %s --corp %s", appName, input, opts.search.corp))
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if render.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
