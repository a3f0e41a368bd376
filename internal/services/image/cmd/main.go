package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/SnapScribe/app/internal/pkg/middleware"
	"github.com/SnapScribe/app/internal/pkg/router"
	"github.com/SnapScribe/app/internal/services/image/internal/config"
	"github.com/SnapScribe/app/internal/services/image/internal/rest"
	"github.com/SnapScribe/app/internal/services/image/internal/service"
)

func run(ctx context.Context) error {
	slog.Info("starting image service")

	cfg := config.FromEnv()
	srv, err := service.NewImageService(service.ImageServiceConfig{
		ServeRoot: cfg.ImageStore.ServeRoot,
		Root:      cfg.ImageStore.Root,
		MaxWidth:  cfg.ImageStore.MaxWidth,
		MaxHeight: cfg.ImageStore.MaxHeight,
		Formats:   cfg.ImageStore.Formats,
	})
	if err != nil {
		return fmt.Errorf("create image service: %w", err)
	}

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(cfg.ImageStore.Root); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// uploads come from the words service on the internal network
	r.Handle("/", rest.NewAPI(
		rest.WithImageService(srv),
		rest.WithMaxImageSize(cfg.ImageStore.MaxSize),
		rest.WithContentRoot(cfg.ImageStore.Root),
	))

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
		slog.Error("image service exited with error", "error", err)
		os.Exit(1)
	}
}
