package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SnapScribe/app/internal/pkg/middleware"
	"github.com/SnapScribe/app/internal/pkg/router"
	"github.com/SnapScribe/app/internal/services/gateway/internal/config"
	"github.com/SnapScribe/app/internal/services/gateway/internal/proxy"
)

func run(ctx context.Context) error {
	slog.Info("starting api gateway")

	cfg := config.FromEnv()

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	// image uploads stay on the internal network
	proxy.Mount(r,
		proxy.Route{Pattern: "/api/v1/auth/", Upstream: cfg.Upstream.Auth},
		proxy.Route{Pattern: "/api/v1/", Upstream: cfg.Upstream.Words},
		proxy.Route{Pattern: "GET /image/", Upstream: cfg.Upstream.Image},
	)

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.ListenAddr,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Handler:      r,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("api gateway terminated with error", "error", err)
		os.Exit(1)
	}
}
