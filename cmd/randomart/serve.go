package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/randomart/internal/cli"
	httpAdapter "github.com/aretw0/randomart/pkg/adapters/http"
	"github.com/aretw0/randomart/pkg/adapters/redis"
	"github.com/aretw0/randomart/pkg/domain"
	"github.com/aretw0/randomart/pkg/observability"
	"github.com/aretw0/randomart/pkg/session"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveFlags = map[string]string{
	"port":           "http.port",
	"small-size":     "http.small_size",
	"big-size":       "http.big_size",
	"max-size":       "http.max_size",
	"max-complexity": "http.max_complexity",
	"metrics":        "http.metrics",
	"redis-addr":     "redis.addr",
	"workers":        "workers",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves art over HTTP: GET /art renders a phrase, GET /tree returns its tree,
POST /render renders tree text. Each client (X-Client-ID) runs one job at a time.
With redis.addr set, PNGs are cached and busy flags are shared between replicas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyFlags(cmd, &cfg, serveFlags); err != nil {
			return err
		}

		var (
			hooks       []domain.LifecycleHooks
			metrics     *observability.Metrics
			sessionOpts = []session.Option{session.WithLogger(logger)}
			httpOpts    = []httpAdapter.Option{
				httpAdapter.WithLogger(logger),
				httpAdapter.WithSizes(cfg.HTTP.SmallSize, cfg.HTTP.BigSize, cfg.HTTP.MaxSize),
				httpAdapter.WithMaxComplexity(cfg.HTTP.MaxComplexity),
			}
		)
		if cfg.HTTP.Metrics {
			metrics = observability.NewMetrics()
			hooks = append(hooks, metrics.Hooks())
			sessionOpts = append(sessionOpts, session.WithCacheObserver(metrics.CacheResult))
			httpOpts = append(httpOpts, httpAdapter.WithMetrics(metrics.Handler()))
		}

		engine, err := cli.CreateEngine(logger, cfg.Workers, hooks...)
		if err != nil {
			return err
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if cfg.Redis.Addr != "" {
			cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
				redis.WithTTL(cfg.Redis.TTL),
				redis.WithPrefix(cfg.Redis.Prefix+"art:"),
			)
			defer cache.Close()
			if err := cache.Ping(ctx); err != nil {
				return fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
			}
			sessionOpts = append(sessionOpts,
				session.WithCache(cache),
				session.WithLocker(redis.NewLocker(cache.Client(), cfg.Redis.Prefix)),
			)
			logger.Info("redis enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}

		jobs := session.NewManager(engine, sessionOpts...)
		srv := &http.Server{
			Addr:              ":" + cfg.HTTP.Port,
			Handler:           httpAdapter.NewHandler(engine, jobs, httpOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting randomart server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", ctx.Signal())

			// Give outstanding renders a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "randomart server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Int("small-size", 128, "Side of default previews")
	serveCmd.Flags().Int("big-size", 512, "Side of renders asked with big=true")
	serveCmd.Flags().Int("max-size", 2048, "Largest side a client may ask for")
	serveCmd.Flags().Int("max-complexity", 1000, "Largest explicit complexity a client may ask for")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
	serveCmd.Flags().String("redis-addr", "", "Redis address (host:port) for the shared cache")
	serveCmd.Flags().Int("workers", 0, "Row workers per render (0 = GOMAXPROCS)")
}
