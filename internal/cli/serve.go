package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/internal/config"
	"github.com/matzehuels/archgraph/internal/server"
	"github.com/matzehuels/archgraph/pkg/observability/prometheus"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Routes:
  POST /api/v1/generate        classify a file list and lay it out
  POST /api/v1/relayout        re-layout a graph
  POST /api/v1/relayout/batch  re-layout several graphs concurrently
  POST /api/v1/layout          raw layout engine access
  GET  /healthz, /version, /metrics

Listening address, rate limits, timeouts and the cache backend come from the
[server] and [cache] sections of the config file. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if noCache {
				cfg.Cache.Backend = config.CacheNone
			}
			return c.runServe(cmd, cfg, !noMetrics)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the Prometheus /metrics endpoint")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, cfg config.Config, metrics bool) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := cfg.NewRunner(ctx, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := serverOptions(cfg)
	if metrics {
		m := prometheus.New(nil)
		m.Register()
		opts.Metrics = m.Handler()
	}

	logger.Info("Starting server",
		"addr", cfg.Server.Addr,
		"cache", cfg.Cache.Backend,
		"classifier", cfg.Classifier.Kind,
		"metrics", metrics)
	return server.New(runner, logger, opts).ListenAndServe(ctx, cfg.Server.Addr)
}

// serverOptions maps the [server] and [layout] config sections to server
// options.
func serverOptions(cfg config.Config) server.Options {
	return server.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		RateLimit:    cfg.Server.RateLimit,
		Burst:        cfg.Server.Burst,
		BatchLimit:   cfg.Server.BatchLimit,
		Defaults:     cfg.Options(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
