package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cashbook/internal/cache"
	"cashbook/internal/cli"
	apphttp "cashbook/internal/http"
	"cashbook/internal/log"
	"cashbook/internal/middleware/ratelimit"
)

const shutdownTimeout = 30 * time.Second

func newServeCommand(rt *runtime) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = rt.cfg.Port
			}
			// The server logs to stdout like any other service.
			logger := cli.SetupLogger(rt.cfg, cmd.OutOrStdout())
			return runServe(cmd.Context(), rt, logger, ":"+port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT)")
	return cmd
}

func runServe(parent context.Context, rt *runtime, logger *log.Logger, addr string) error {
	ctx, cancel := cli.GracefulShutdown(parent, logger)
	defer cancel()

	publisher, closePublisher, err := rt.openPublisher()
	if err != nil {
		return err
	}
	defer closePublisher()

	app, err := cli.NewApp(ctx, rt.cfg, logger, cli.AppOptions{Publisher: publisher, Clock: rt.now})
	if err != nil {
		return err
	}
	defer app.Close()

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	caches := cache.NewManager(logger)
	caches.Register(app.Overview)

	srv := apphttp.NewServer(addr, app.Service, apphttp.Options{
		Logger:  logger,
		Limiter: limiter,
		Ready:   app.Backend.Ping,
	})

	sweep := rt.cfg.CacheTTL
	if sweep <= 0 {
		sweep = time.Minute
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting cashbook server", "addr", addr, log.FieldBackend, rt.cfg.DataBackend,
			"export_backend", rt.cfg.ExportBackend, "amqp", rt.cfg.AMQPEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error { return caches.Run(gctx, sweep) })
	g.Go(func() error { return limiter.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
