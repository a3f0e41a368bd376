package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SnapScribe/app/internal/pkg/serr"
	"github.com/SnapScribe/app/internal/pkg/testutil"
	"github.com/SnapScribe/app/internal/services/auth/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAccountService struct {
	signUpFunc  func(ctx context.Context) (service.SignUpResponse, error)
	refreshFunc func(ctx context.Context, refreshToken string) (service.TokenPair, error)
	grantFunc   func(ctx context.Context, r service.GrantRequest) error
}

func (m *mockAccountService) SignUp(ctx context.Context) (service.SignUpResponse, error) {
	return m.signUpFunc(ctx)
}

func (m *mockAccountService) Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error) {
	return m.refreshFunc(ctx, refreshToken)
}

func (m *mockAccountService) Grant(ctx context.Context, r service.GrantRequest) error {
	return m.grantFunc(ctx, r)
}

func TestPOSTAnonymous(t *testing.T) {
	api := NewAPI(&mockAccountService{
		signUpFunc: func(ctx context.Context) (service.SignUpResponse, error) {
			return service.SignUpResponse{
				UserID: "user-1",
				Tokens: service.TokenPair{AccessToken: "at", RefreshToken: "rt"},
			}, nil
		},
	}, "billing")

	rec := testutil.SendRequest(t, api, "POST", "/anonymous", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"user_id":"user-1","access_token":"at","refresh_token":"rt"}`, rec.Body.String())
}

func TestPOSTAnonymous_Error(t *testing.T) {
	api := NewAPI(&mockAccountService{
		signUpFunc: func(ctx context.Context) (service.SignUpResponse, error) {
			return service.SignUpResponse{}, errors.New("redis down")
		},
	}, "billing")

	rec := testutil.SendRequest(t, api, "POST", "/anonymous", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPOSTRefresh(t *testing.T) {
	api := NewAPI(&mockAccountService{
		refreshFunc: func(ctx context.Context, refreshToken string) (service.TokenPair, error) {
			if refreshToken != "rt" {
				return service.TokenPair{}, serr.NewServiceError(nil, http.StatusUnauthorized, "invalid refresh token")
			}
			return service.TokenPair{AccessToken: "at2", RefreshToken: "rt2"}, nil
		},
	}, "billing")

	rec := testutil.SendRequest(t, api, "POST", "/refresh", refreshRequest{RefreshToken: "rt"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[tokenResponse](t, rec)
	assert.Equal(t, "at2", resp.AccessToken)
	assert.Equal(t, "rt2", resp.RefreshToken)

	rec = testutil.SendRequest(t, api, "POST", "/refresh", refreshRequest{RefreshToken: "stale"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPOSTRefresh_BadBody(t *testing.T) {
	api := NewAPI(&mockAccountService{}, "billing")

	rec := testutil.SendRequest(t, api, "POST", "/refresh", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPUTEntitlements(t *testing.T) {
	var got service.GrantRequest
	api := NewAPI(&mockAccountService{
		grantFunc: func(ctx context.Context, r service.GrantRequest) error {
			got = r
			return nil
		},
	}, "billing")

	rec := testutil.SendRequest(t, api, "PUT", "/entitlements/user-1",
		grantRequest{Entitlements: []string{"premium"}},
		BillingKeyHeader, "billing",
	)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, service.GrantRequest{UserID: "user-1", Entitlements: []string{"premium"}}, got)
}

func TestPUTEntitlements_Unauthorized(t *testing.T) {
	called := false
	srv := &mockAccountService{
		grantFunc: func(ctx context.Context, r service.GrantRequest) error {
			called = true
			return nil
		},
	}

	rec := testutil.SendRequest(t, NewAPI(srv, "billing"), "PUT", "/entitlements/user-1",
		grantRequest{Entitlements: []string{"premium"}},
		BillingKeyHeader, "wrong",
	)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = testutil.SendRequest(t, NewAPI(srv, ""), "PUT", "/entitlements/user-1",
		grantRequest{Entitlements: []string{"premium"}},
	)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}
