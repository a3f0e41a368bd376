package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/SnapScribe/app/internal/pkg/middleware"
	"github.com/SnapScribe/app/internal/pkg/router"
	"github.com/SnapScribe/app/internal/services/words/internal/catalog"
	"github.com/SnapScribe/app/internal/services/words/internal/config"
	"github.com/SnapScribe/app/internal/services/words/internal/image"
	"github.com/SnapScribe/app/internal/services/words/internal/rest"
	"github.com/SnapScribe/app/internal/services/words/internal/service"
	"github.com/SnapScribe/app/internal/services/words/internal/state"
	"github.com/SnapScribe/app/internal/services/words/internal/store"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type imageStore interface {
	SaveImage(ctx context.Context, img io.Reader) (*url.URL, error)
}

func openCatalog(ctx context.Context, cfg config.Config) (catalog.Provider, func(), error) {
	switch cfg.Catalog.Source {
	case config.CatalogMock:
		return catalog.NewMockProvider(catalog.MockDelays{
			Languages:  cfg.Catalog.LanguagesDelay,
			Categories: cfg.Catalog.CategoriesDelay,
			Words:      cfg.Catalog.WordsDelay,
		}), func() {}, nil
	case config.CatalogSQL:
		s, err := store.Open(ctx, store.Config{
			Driver:   cfg.DB.Type,
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			DB:       cfg.DB.Name,
			Path:     cfg.DB.Path,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported catalog source: %s", cfg.Catalog.Source)
	}
}

func openState(cfg config.Config) (state.Store, error) {
	switch cfg.State.Backend {
	case config.StateMemory:
		return state.NewMemory(state.MemoryConfig{
			MaxKeys:  cfg.State.MemoryKeys,
			MaxBytes: cfg.State.MemoryBytes,
		})
	case config.StateRedis:
		return state.NewRedis(state.RedisConfig{
			Host:     cfg.State.RedisHost,
			Port:     cfg.State.RedisPort,
			Password: cfg.State.RedisPassword,
			DB:       cfg.State.RedisDB,
			Prefix:   cfg.State.RedisPrefix,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported state backend: %s", cfg.State.Backend)
	}
}

func openImages(cfg config.Config) (imageStore, error) {
	switch cfg.Image.Store {
	case config.ImageDiscard:
		return image.Discard{}, nil
	case config.ImageRemote:
		return image.NewRemoteStore(cfg.Image.Endpoint, cfg.Image.FieldName, cfg.Image.Ext, cfg.Image.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported image store: %s", cfg.Image.Store)
	}
}

func run(ctx context.Context) error {
	slog.Info("starting words service")

	cfg := config.FromEnv()

	provider, closeProvider, err := openCatalog(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer closeProvider()

	cat := catalog.New(provider, catalog.Config{
		MaxKeys:      cfg.Catalog.CacheKeys,
		MaxCost:      cfg.Catalog.CacheCost,
		ReferenceTTL: cfg.Catalog.ReferenceTTL,
		WordsTTL:     cfg.Catalog.WordsTTL,
	})
	defer cat.Close()

	st, err := openState(cfg)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}
	defer st.Close()

	images, err := openImages(cfg)
	if err != nil {
		return err
	}

	settings := service.NewSettingsService(st, cat, cfg.EntitlementID)
	games := service.NewGameService(st, cat, settings, nil, cfg.Game.SessionTTL)
	identifier := catalog.NewIdentifier(cat, images, catalog.PendingRecognizer{})

	var deps []pinger
	for _, d := range []any{provider, st} {
		if p, ok := d.(pinger); ok {
			deps = append(deps, p)
		}
	}

	r := router.New()
	r.Use(middleware.Recover(), middleware.Log())
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range deps {
			if err := p.Ping(r.Context()); err != nil {
				slog.Warn("dependency not ready", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	v1 := r.SubRouter("/api/v1")
	v1.Use(middleware.Auth([]byte(cfg.AuthSecret)))
	v1.Handle("/", rest.NewAPI(cat, identifier, settings, games,
		rest.WithMaxImageSize(cfg.Image.MaxSize),
		rest.WithIdentifyTimeout(cfg.Catalog.IdentifyTimeout),
		rest.WithSwipeIdleTimeout(cfg.Game.SwipeIdleTimeout),
	))

	httpSrv := &http.Server{
		Addr:         cfg.Http.ListenAddr,
		IdleTimeout:  cfg.Http.IdleTimeout,
		ReadTimeout:  cfg.Http.ReadTimeout,
		WriteTimeout: cfg.Http.WriteTimeout,
		Handler:      r,
	}

	errCh := make(chan error, 1)

	go func() {
		slog.Info("HTTP server starting", "addr", httpSrv.Addr, "catalog", cfg.Catalog.Source, "state", cfg.State.Backend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
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
		slog.Error("words service exited with error", "error", err)
		os.Exit(1)
	}
}
