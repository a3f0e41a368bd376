package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	testdb "github.com/SnapScribe/app/internal/pkg/test/db"
	"github.com/SnapScribe/app/internal/pkg/testutil"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secret"

var redisAddr testdb.ContainerAddr

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	addr, closeRedis := testdb.StartRedis(ctx)
	redisAddr = addr

	code := m.Run()
	closeRedis()
	cancel()
	os.Exit(code)
}

type tokens struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func startService(t *testing.T) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	if redisAddr.Host == "" {
		t.Skip("redis container is not started in short mode")
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	t.Setenv("HTTP_LISTEN_ADDR", addr)
	t.Setenv("AUTH_SECRET", secret)
	t.Setenv("BILLING_KEY", "billing")
	t.Setenv("REDIS_HOST", redisAddr.Host)
	t.Setenv("REDIS_PORT", redisAddr.Port)

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	base := "http://" + addr
	ready := testutil.WaitFor(t, ctx, 50*time.Millisecond, func() bool {
		resp, err := http.Get(base + "/readyz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
	require.True(t, ready)

	return base, cancel, errCh
}

func post(t *testing.T, method, url string, body any, headers ...string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func entitlements(t *testing.T, raw string) []any {
	t.Helper()

	tk, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) { return []byte(secret), nil })
	require.NoError(t, err)

	ents, _ := tk.Claims.(jwt.MapClaims)["entitlements"].([]any)
	return ents
}

func TestRun(t *testing.T) {
	base, cancel, errCh := startService(t)
	api := base + "/api/v1/auth"

	resp := post(t, "POST", api+"/anonymous", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var signup tokens
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&signup))
	require.NotEmpty(t, signup.UserID)
	assert.Empty(t, entitlements(t, signup.AccessToken))

	resp = post(t, "PUT", api+"/entitlements/"+signup.UserID,
		map[string][]string{"entitlements": {"premium"}},
		"X-Billing-Key", "billing",
	)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = post(t, "POST", api+"/refresh", map[string]string{"refresh_token": signup.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed tokens
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&refreshed))
	assert.Equal(t, []any{"premium"}, entitlements(t, refreshed.AccessToken))

	resp = post(t, "POST", api+"/refresh", map[string]string{"refresh_token": signup.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("service did not shut down in time after context cancellation")
	}
}
