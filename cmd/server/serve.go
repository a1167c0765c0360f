package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/anonto42/nano-social/backend/internal/app"
	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/pkg/config"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API and the metrics listener",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.SetupLogging()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	config.SetupMiddleware(e, cfg)
	router.SetupRoutes(e, a.Deps)

	api := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP server listening", "addr", api.Addr)
		errCh <- listen(api)
	}()
	go func() {
		log.Info("Metrics server listening", "addr", metricsServer.Addr)
		errCh <- listen(metricsServer)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case err = <-errCh:
		log.Error("server stopped unexpectedly", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if serr := api.Shutdown(shutdownCtx); serr != nil {
		log.Error("HTTP server shutdown failed", "err", serr)
	}
	if serr := metricsServer.Shutdown(shutdownCtx); serr != nil {
		log.Error("Metrics server shutdown failed", "err", serr)
	}
	// Close drains queued notifications and token pruning before the
	// store goes away.
	if cerr := a.Close(shutdownCtx); cerr != nil {
		log.Error("failed to close dependencies", "err", cerr)
	}
	log.Info("Shutdown complete.")
	return err
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
