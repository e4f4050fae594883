package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackgraph/internal/server"
	"github.com/matzehuels/trackgraph/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	search searchFlags
	addr   string
	cache  string
}

// serveCommand creates the HTTP query API command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [board.toml]",
		Short: "Serve connectivity queries for a board over HTTP",
		Example: `  trackgraph serve 1830.toml --addr :8080
  curl localhost:8080/corporations/PRR/route`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().StringVar(&opts.cache, "cache", defaultCache, "report cache: none, file, redis://..., mongodb://...")
	opts.search.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path string, opts serveOpts) error {
	b, err := loadBoard(path)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := opts.search.options()
	popts.Logger = loggerFromContext(ctx)

	srv := server.New(b, runner, popts)
	defer registerMetricsHooks(srv.Metrics())()

	printInfo("Serving %s on %s", path, StyleLink.Render("http://"+opts.addr))
	printDetail("metrics at /metrics")
	return srv.ListenAndServe(ctx, opts.addr)
}

// registerMetricsHooks adds the server's collectors next to any hooks
// already registered, so -v keeps logging events while serving.
func registerMetricsHooks(m *server.Metrics) (remove func()) {
	removeGraph := observability.AddGraphHooks(m)
	removeQuery := observability.AddQueryHooks(m)
	removeCache := observability.AddCacheHooks(m)
	return func() {
		removeCache()
		removeQuery()
		removeGraph()
	}
}
