package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/SnapScribe/app/internal/pkg/env"
)

type Config struct {
	HTTP     httpConfig
	Upstream upstreamConfig
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type upstreamConfig struct {
	Words *url.URL
	Auth  *url.URL
	Image *url.URL
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:   env.String("HTTP_LISTEN_ADDR", ":8000"),
			ReadTimeout:  env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: env.Duration("HTTP_WRITE_TIMEOUT", 0),
			// swipe sessions are long-lived websocket connections
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upstream: upstreamConfig{
			Words: requireURL("WORDS_URL", env.String("WORDS_URL", "http://localhost:8080")),
			Auth:  requireURL("AUTH_URL", env.String("AUTH_URL", "http://localhost:8081")),
			Image: requireURL("IMAGE_URL", env.String("IMAGE_URL", "http://localhost:9999")),
		},
	}
}

func requireURL(key, raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		panic(fmt.Sprintf("environment variable %q must be an absolute url, got %q", key, raw))
	}
	return u
}
