package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access token payload. The words service reads `sub`, `anon`
// and `entitlements` from it.
type Claims struct {
	jwt.RegisteredClaims
	Anonymous    bool     `json:"anon"`
	Entitlements []string `json:"entitlements,omitempty"`
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

type IssuerConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func NewIssuer(cfg IssuerConfig) *Issuer {
	return &Issuer{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
	}
}

func (i *Issuer) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.Issuer = i.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))

	tk, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tk, nil
}

func (i *Issuer) Validate(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	return claims, nil
}
