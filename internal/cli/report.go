package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackgraph/pkg/report"
)

// reportOpts holds the command-line flags for the report command.
type reportOpts struct {
	search  searchFlags
	cache   string // cache selector: none, file, redis://..., mongodb://...
	refresh bool   // recompute even when cached
	json    bool   // print the report as JSON
	output  string // write JSON to this file instead of stdout
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var opts reportOpts

	cmd := &cobra.Command{
		Use:   "report [board.toml]",
		Short: "Answer every connectivity query for a corporation",
		Long: `Report runs the full set of connectivity queries for one corporation:
route availability, tokenable cities, connected hexes, nodes and paths.`,
		Example: `  trackgraph report 1830.toml --corp PRR
  trackgraph report 1830.toml --corp PRR --json --cache redis://localhost:6379/0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd.Context(), args[0], opts)
		},
	}

	opts.search.registerCorp(cmd)
	opts.search.register(cmd)
	cmd.Flags().StringVar(&opts.cache, "cache", defaultCache, "report cache: none, file, redis://..., mongodb://...")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached reports")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to a file")

	return cmd
}

func (c *CLI) runReport(ctx context.Context, path string, opts reportOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	b, err := loadBoard(path)
	if err != nil {
		return err
	}
	logger.Debug("loaded board", "path", path, "hexes", b.NumHexes(), "paths", b.NumPaths(), "nodes", b.NumNodes())

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.search.options()
	popts.Refresh = opts.refresh
	popts.Logger = logger

	spinner := newSearchSpinner(ctx, os.Stderr, "Searching network of "+opts.search.corp, opts.search.corp)
	spinner.Start()
	rep, hit, err := runner.ReportWithCacheInfo(ctx, b, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Computed report for %s", rep.Corporation))

	if opts.json || opts.output != "" {
		out, err := openOutput(opts.output)
		if err != nil {
			return err
		}
		defer out.Close()
		return writeReportJSON(out, rep)
	}

	printReport(rep, hit)
	return nil
}

func writeReportJSON(w io.Writer, rep report.Report) error {
	data, err := report.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// printReport prints a human-readable summary of rep.
func printReport(rep report.Report, cached bool) {
	printSuccess("Network of %s", StyleHighlight.Render(rep.Corporation))
	printStats(rep.Steps, len(rep.ConnectedNodes), len(rep.ReachableHexes), cached)
	printNewline()

	printKeyValue("route", routeSummary(rep))
	printKeyValue("can token", yesNo(rep.CanToken))
	printKeyValue("tokenable", joinRefs(rep.TokenableCities))
	printKeyValue("nodes", joinRefs(rep.ConnectedNodes))
	printKeyValue("paths", fmt.Sprint(rep.ConnectedPaths))

	hexes := make([]string, 0, len(rep.ConnectedHexes))
	for _, h := range rep.ConnectedHexes {
		hexes = append(hexes, fmt.Sprintf("%s%v", h.Hex, h.Directions))
	}
	printKeyValue("layable", orNone(strings.Join(hexes, " ")))
}

func routeSummary(rep report.Report) string {
	switch {
	case rep.Route.TrainPurchase:
		return "available, trains may be bought"
	case rep.Route.Available:
		return "available"
	default:
		return "none"
	}
}

func joinRefs(refs []report.NodeRef) string {
	s := make([]string, len(refs))
	for i, r := range refs {
		s[i] = r.String()
	}
	return orNone(strings.Join(s, ", "))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func orNone(s string) string {
	if s == "" {
		return StyleDim.Render("none")
	}
	return s
}

// nopCloser wraps an io.Writer to add a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

