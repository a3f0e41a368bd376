package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("not found")

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// RefreshTTL bounds how long an unused refresh token stays redeemable.
	RefreshTTL time.Duration
}

// Redis keeps refresh tokens and per-user entitlements.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(cfg RedisConfig) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Redis{
		rdb: rdb,
		ttl: cfg.RefreshTTL,
	}
}

func (r *Redis) CreateRefreshToken(ctx context.Context, userID string) (string, error) {
	for range 3 {
		tok := generateToken()
		ok, err := r.rdb.SetNX(ctx, refreshKey(tok), userID, r.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("store refresh token in redis: %w", err)
		}
		if ok {
			return tok, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique refresh token")
}

// RefreshTokenOwner returns the user a live refresh token belongs to without consuming it.
func (r *Redis) RefreshTokenOwner(ctx context.Context, tok string) (string, error) {
	uid, err := r.rdb.Get(ctx, refreshKey(tok)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("get refresh token: %w", err)
	}

	return uid, nil
}

func (r *Redis) RevokeRefreshToken(ctx context.Context, tok string) error {
	if err := r.rdb.Del(ctx, refreshKey(tok)).Err(); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RedeemRefreshToken consumes the token and returns the user it was issued to.
func (r *Redis) RedeemRefreshToken(ctx context.Context, tok string) (string, error) {
	uid, err := r.rdb.GetDel(ctx, refreshKey(tok)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("redeem refresh token: %w", err)
	}

	return uid, nil
}

// SetEntitlements replaces the user's entitlements. An empty list revokes all of them.
func (r *Redis) SetEntitlements(ctx context.Context, userID string, ents []string) error {
	key := entitlementsKey(userID)
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(ents) > 0 {
			members := make([]any, 0, len(ents))
			for _, e := range ents {
				members = append(members, e)
			}
			p.SAdd(ctx, key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set entitlements: %w", err)
	}

	return nil
}

func (r *Redis) Entitlements(ctx context.Context, userID string) ([]string, error) {
	ents, err := r.rdb.SMembers(ctx, entitlementsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get entitlements: %w", err)
	}

	slices.Sort(ents)
	return ents, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

func refreshKey(tok string) string {
	return "refresh:" + tok
}

func entitlementsKey(userID string) string {
	return "entitlements:" + userID
}

func generateToken() string {
	b := make([]byte, 32)

	// rand.Read never returns an error
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
