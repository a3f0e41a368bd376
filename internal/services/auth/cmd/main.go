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
	"github.com/SnapScribe/app/internal/services/auth/internal/account"
	"github.com/SnapScribe/app/internal/services/auth/internal/config"
	"github.com/SnapScribe/app/internal/services/auth/internal/rest"
	"github.com/SnapScribe/app/internal/services/auth/internal/service"
	"github.com/SnapScribe/app/internal/services/auth/internal/token"
)

func run(ctx context.Context) error {
	slog.Info("starting auth service")

	cfg := config.FromEnv()
	accounts := account.NewRedis(account.RedisConfig{
		Host:       cfg.Redis.Host,
		Port:       cfg.Redis.Port,
		Password:   cfg.Redis.Password,
		DB:         cfg.Redis.DB,
		RefreshTTL: cfg.JWT.RefreshTTL,
	})
	defer accounts.Close()

	srv := service.NewAccounts(
		service.WithStore(accounts),
		service.WithAccessToken(token.NewIssuer(token.IssuerConfig{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    cfg.JWT.AccessTTL,
		})),
	)

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := accounts.Ping(r.Context()); err != nil {
			slog.Warn("redis is not ready", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	api := r.SubRouter("/api/v1/auth")
	api.Handle("/", rest.NewAPI(srv, cfg.BillingKey))

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
		slog.Error("auth service terminated with error", "error", err)
		os.Exit(1)
	}
}
