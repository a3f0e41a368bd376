package config

import (
	"time"

	"github.com/SnapScribe/app/internal/pkg/env"
)

const (
	CatalogMock = "mock"
	CatalogSQL  = "sql"

	StateMemory = "memory"
	StateRedis  = "redis"

	ImageDiscard = "discard"
	ImageRemote  = "remote"
)

type Config struct {
	AuthSecret    string
	EntitlementID string
	Catalog       catalogConfig
	DB            dbConfig
	State         stateConfig
	Game          gameConfig
	Http          httpConfig
	Image         imageConfig
}

type catalogConfig struct {
	// Source is "mock" for the built-in catalog or "sql" for the database.
	Source          string
	CacheKeys       int64
	CacheCost       int64
	ReferenceTTL    time.Duration
	WordsTTL        time.Duration
	LanguagesDelay  time.Duration
	CategoriesDelay time.Duration
	WordsDelay      time.Duration
	IdentifyTimeout time.Duration
}

type dbConfig struct {
	Type     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	Path     string
}

type stateConfig struct {
	Backend       string
	MemoryKeys    int64
	MemoryBytes   int64
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

type gameConfig struct {
	SessionTTL       time.Duration
	SwipeIdleTimeout time.Duration
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type imageConfig struct {
	Store     string
	Endpoint  string
	FieldName string
	Ext       string
	MaxSize   int64
	Timeout   time.Duration
}

func FromEnv() Config {
	return Config{
		AuthSecret:    env.RequireString("AUTH_SECRET"),
		EntitlementID: env.String("ENTITLEMENT_ID", "premium"),
		Catalog: catalogConfig{
			Source:          env.String("CATALOG_SOURCE", CatalogMock),
			CacheKeys:       env.Int64("CATALOG_CACHE_KEYS", 1000),
			CacheCost:       env.Int64("CATALOG_CACHE_COST", 1000),
			ReferenceTTL:    env.Duration("CATALOG_REFERENCE_TTL", 24*time.Hour),
			WordsTTL:        env.Duration("CATALOG_WORDS_TTL", 30*time.Minute),
			LanguagesDelay:  env.Duration("MOCK_LANGUAGES_DELAY", 150*time.Millisecond),
			CategoriesDelay: env.Duration("MOCK_CATEGORIES_DELAY", 200*time.Millisecond),
			WordsDelay:      env.Duration("MOCK_WORDS_DELAY", 420*time.Millisecond),
			IdentifyTimeout: env.Duration("IDENTIFY_TIMEOUT", 30*time.Second),
		},
		DB: dbConfig{
			Type:     env.String("DB_TYPE", "sqlite"),
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", "password"),
			Name:     env.String("DB_NAME", "snapscribe"),
			Path:     env.String("DB_PATH", "./snapscribe.db"),
		},
		State: stateConfig{
			Backend:       env.String("STATE_BACKEND", StateMemory),
			MemoryKeys:    env.Int64("STATE_MEMORY_KEYS", 100000),
			MemoryBytes:   env.Int64("STATE_MEMORY_BYTES", 64*1024*1024),
			RedisHost:     env.String("REDIS_HOST", "localhost"),
			RedisPort:     env.String("REDIS_PORT", "6379"),
			RedisPassword: env.String("REDIS_PASSWORD", ""),
			RedisDB:       env.Int("REDIS_DB", 0),
			RedisPrefix:   env.String("REDIS_PREFIX", "snapscribe:"),
		},
		Game: gameConfig{
			SessionTTL:       env.Duration("GAME_SESSION_TTL", 24*time.Hour),
			SwipeIdleTimeout: env.Duration("SWIPE_IDLE_TIMEOUT", 2*time.Minute),
		},
		Http: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Image: imageConfig{
			Store:     env.String("IMAGE_STORE", ImageDiscard),
			Endpoint:  env.String("IMAGE_ENDPOINT", "http://localhost:9999/upload"),
			FieldName: env.String("IMAGE_FIELD_NAME", "image"),
			Ext:       env.String("IMAGE_EXT", ".jpg"),
			MaxSize:   env.Int64("IMAGE_MAX_SIZE", 5*1024*1024),
			Timeout:   env.Duration("IMAGE_TIMEOUT", 10*time.Second),
		},
	}
}
