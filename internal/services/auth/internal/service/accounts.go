package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/auth/internal/account"
	"github.com/SnapScribe/app/internal/services/auth/internal/token"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type tokenIssuer interface {
	Issue(claims token.Claims) (string, error)
}

type accountStore interface {
	CreateRefreshToken(ctx context.Context, userID string) (string, error)
	RefreshTokenOwner(ctx context.Context, tok string) (string, error)
	RedeemRefreshToken(ctx context.Context, tok string) (string, error)
	RevokeRefreshToken(ctx context.Context, tok string) error
	SetEntitlements(ctx context.Context, userID string, ents []string) error
	Entitlements(ctx context.Context, userID string) ([]string, error)
}

// Accounts issues tokens for anonymous app installs and tracks what they are entitled to.
type Accounts struct {
	store       accountStore
	accessToken tokenIssuer
	newID       func() string
}

type AccountsOption func(*Accounts) *Accounts

func WithStore(st accountStore) AccountsOption {
	return func(a *Accounts) *Accounts {
		a.store = st
		return a
	}
}

func WithAccessToken(iss tokenIssuer) AccountsOption {
	return func(a *Accounts) *Accounts {
		a.accessToken = iss
		return a
	}
}

func WithIDGenerator(newID func() string) AccountsOption {
	return func(a *Accounts) *Accounts {
		a.newID = newID
		return a
	}
}

func NewAccounts(opts ...AccountsOption) *Accounts {
	a := &Accounts{newID: uuid.NewString}
	for _, opt := range opts {
		a = opt(a)
	}

	if a.store == nil {
		panic("account store is required")
	}

	if a.accessToken == nil {
		panic("access token issuer is required")
	}

	return a
}

type SignUpResponse struct {
	UserID string
	Tokens TokenPair
}

// SignUp creates an anonymous user and issues its first token pair.
func (a *Accounts) SignUp(ctx context.Context) (SignUpResponse, error) {
	uid := a.newID()
	tp, err := a.issue(ctx, uid)
	if err != nil {
		return SignUpResponse{}, err
	}

	slog.Info("anonymous user signed up", "user_id", uid)
	return SignUpResponse{UserID: uid, Tokens: tp}, nil
}

// Refresh rotates the pair behind a refresh token. The access token picks up
// entitlements granted since the last refresh. The old token is consumed only
// after the new pair exists, so a failed refresh can be retried with it.
func (a *Accounts) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, serr.NewServiceError(nil, http.StatusBadRequest, "refresh token is required")
	}

	uid, err := a.store.RefreshTokenOwner(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, refreshErr(err)
	}

	tp, err := a.issue(ctx, uid)
	if err != nil {
		return TokenPair{}, err
	}

	if _, err := a.store.RedeemRefreshToken(ctx, refreshToken); err != nil {
		if rerr := a.store.RevokeRefreshToken(ctx, tp.RefreshToken); rerr != nil {
			slog.Warn("failed to revoke unused refresh token", "user_id", uid, "error", rerr)
		}
		return TokenPair{}, refreshErr(err)
	}

	return tp, nil
}

func refreshErr(err error) error {
	if errors.Is(err, account.ErrNotFound) {
		return serr.NewServiceError(err, http.StatusUnauthorized, "invalid refresh token")
	}
	return fmt.Errorf("redeem refresh token: %w", err)
}

type GrantRequest struct {
	UserID       string
	Entitlements []string
}

// Grant replaces the user's entitlements. Billing calls it after a purchase or a lapse.
func (a *Accounts) Grant(ctx context.Context, r GrantRequest) error {
	if r.UserID == "" {
		return serr.NewServiceError(nil, http.StatusBadRequest, "user id is required")
	}

	var ents []string
	for _, e := range r.Entitlements {
		if e = strings.TrimSpace(e); e != "" && !slices.Contains(ents, e) {
			ents = append(ents, e)
		}
	}

	if err := a.store.SetEntitlements(ctx, r.UserID, ents); err != nil {
		return fmt.Errorf("set entitlements: %w", err)
	}

	slog.Info("entitlements updated", "user_id", r.UserID, "entitlements", ents)
	return nil
}

func (a *Accounts) issue(ctx context.Context, uid string) (TokenPair, error) {
	ents, err := a.store.Entitlements(ctx, uid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("get entitlements: %w", err)
	}

	at, err := a.accessToken.Issue(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: uid},
		Anonymous:        true,
		Entitlements:     ents,
	})
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	rt, err := a.store.CreateRefreshToken(ctx, uid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("create refresh token: %w", err)
	}

	return TokenPair{AccessToken: at, RefreshToken: rt}, nil
}
