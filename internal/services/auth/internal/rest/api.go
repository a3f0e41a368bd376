package rest

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"

	"github.com/SnapScribe/app/internal/pkg/httpx"
	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/services/auth/internal/service"
)

// BillingKeyHeader carries the shared key billing uses to update entitlements.
const BillingKeyHeader = "X-Billing-Key"

type accountService interface {
	SignUp(ctx context.Context) (service.SignUpResponse, error)
	Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error)
	Grant(ctx context.Context, r service.GrantRequest) error
}

type API struct {
	srv        accountService
	billingKey []byte
	mux        *http.ServeMux
}

func NewAPI(srv accountService, billingKey string) *API {
	api := &API{
		srv:        srv,
		billingKey: []byte(billingKey),
		mux:        http.NewServeMux(),
	}
	api.mount()
	return api
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

func (a *API) mount() {
	a.mux.HandleFunc("POST /anonymous", a.handleSignUp)
	a.mux.HandleFunc("POST /refresh", a.handleRefresh)
	a.mux.HandleFunc("PUT /entitlements/{user_id}", a.handleGrant)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type signUpResponse struct {
	UserID string `json:"user_id"`
	tokenResponse
}

func (a *API) handleSignUp(w http.ResponseWriter, r *http.Request) {
	resp, err := a.srv.SignUp(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusCreated, signUpResponse{
		UserID: resp.UserID,
		tokenResponse: tokenResponse{
			AccessToken:  resp.Tokens.AccessToken,
			RefreshToken: resp.Tokens.RefreshToken,
		},
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	tp, err := a.srv.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  tp.AccessToken,
		RefreshToken: tp.RefreshToken,
	})
	if err != nil {
		httpx.HandleErr(w, r, fmt.Errorf("write response json: %w", err))
		return
	}
}

type grantRequest struct {
	Entitlements []string `json:"entitlements"`
}

func (a *API) handleGrant(w http.ResponseWriter, r *http.Request) {
	key := []byte(r.Header.Get(BillingKeyHeader))
	if len(a.billingKey) == 0 || subtle.ConstantTimeCompare(key, a.billingKey) != 1 {
		httpx.HandleErr(w, r, serr.NewServiceError(nil, http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req grantRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	err := a.srv.Grant(r.Context(), service.GrantRequest{
		UserID:       r.PathValue("user_id"),
		Entitlements: req.Entitlements,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
