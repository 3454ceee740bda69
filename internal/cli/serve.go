package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rcd/internal/server"
	"github.com/matzehuels/rcd/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	noMetrics bool
	cache     cacheFlags
}

// serveCommand creates the serve command, which runs the HTTP API until
// interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve skeleton learning over HTTP.

  GET  /healthz        liveness and build info
  GET  /v1/algorithms  supported learners
  POST /v1/skeleton    learn a skeleton from an inline sample matrix
  GET  /metrics        Prometheus metrics

Address and timeouts come from the [server] table of the config file.`,
		Example: `  rcd serve --addr :9090
  rcd serve -c experiment.toml --redis-addr localhost:6379`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not expose /metrics")
	addCacheFlags(cmd, &opts.cache)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.Config.Server
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var metrics *observability.Metrics
	if !opts.noMetrics {
		metrics = observability.NewMetrics(prometheus.NewRegistry())
		metrics.Install()
	}

	return server.New(cfg, runner, c.Logger, metrics).ListenAndServe(ctx)
}
