package config

import (
	"time"

	"github.com/SnapScribe/app/internal/pkg/env"
)

type Config struct {
	HTTP       httpConfig
	JWT        jwtConfig
	Redis      redisConfig
	BillingKey string
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type jwtConfig struct {
	// Secret is shared with the words service, which verifies the access tokens.
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type redisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8081"),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		JWT: jwtConfig{
			Secret:     env.RequireString("AUTH_SECRET"),
			Issuer:     env.String("JWT_ISSUER", "snapscribe-auth"),
			AccessTTL:  env.Duration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL: env.Duration("JWT_REFRESH_TTL", 30*24*time.Hour),
		},
		Redis: redisConfig{
			Host:     env.String("REDIS_HOST", "localhost"),
			Port:     env.String("REDIS_PORT", "6379"),
			Password: env.String("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
		},
		BillingKey: env.RequireString("BILLING_KEY"),
	}
}
