package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/SnapScribe/app/internal/pkg/env"
)

type Config struct {
	HTTP       httpConfig
	ImageStore imageConfig
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type imageConfig struct {
	Root      string
	ServeRoot *url.URL
	MaxSize   int64
	MaxWidth  int
	MaxHeight int
	// Formats lists the accepted image formats as reported by image.DecodeConfig.
	Formats []string
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":9999"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		ImageStore: imageConfig{
			ServeRoot: requireURL(env.String("IMAGE_SERVE_ROOT", "http://localhost:9999/image/")),
			Root:      env.String("IMAGE_ROOT", "./images"),
			MaxSize:   env.Int64("IMAGE_MAX_SIZE", 5*1024*1024),
			MaxWidth:  env.Int("IMAGE_MAX_WIDTH", 4096),
			MaxHeight: env.Int("IMAGE_MAX_HEIGHT", 4096),
			Formats:   env.Strings("IMAGE_FORMATS", []string{"jpeg", "png"}),
		},
	}
}

func requireURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		panic(fmt.Sprintf("invalid image serve root %q", raw))
	}
	return u
}
