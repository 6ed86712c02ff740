package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicmap/internal/server"
	"github.com/matzehuels/topicmap/pkg/observability"
	"github.com/matzehuels/topicmap/pkg/store"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noStore bool
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout, toggle and render API over HTTP",
		Long: `Serve the layout, toggle and render API over HTTP.

Requests are stateless: each carries the hierarchy and its collapsed set, and
the server replays that set onto the cached layout. Stored hierarchies are
available under /api/v1/hierarchies unless --no-store is given. Prometheus
metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.Config{
				Addr:           c.cfg.Server.Addr,
				RequestTimeout: c.cfg.Server.RequestTimeout.Duration,
				MaxBodyBytes:   c.cfg.Server.MaxBodyBytes,
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("timeout") {
				cfg.RequestTimeout = timeout
			}
			return c.runServe(cmd.Context(), cfg, noStore, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the hierarchy store routes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, noStore, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var st store.Store
	if !noStore {
		st, err = c.newStore(ctx)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	observability.NewPrometheusHooks(reg).Install()
	defer observability.Reset()

	opts := c.pipelineOptions()
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	srv := server.New(cfg, runner, st,
		server.WithLogger(c.Logger),
		server.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
		server.WithPipelineOptions(opts),
	)

	printSuccess("Serving on %s", cfg.Addr)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
