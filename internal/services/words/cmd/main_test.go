package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/SnapScribe/app/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func freeAddr(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func startService(t *testing.T, env map[string]string) string {
	t.Helper()

	addr := freeAddr(t)
	t.Setenv("AUTH_SECRET", testSecret)
	t.Setenv("HTTP_LISTEN_ADDR", addr)
	t.Setenv("MOCK_LANGUAGES_DELAY", "0s")
	t.Setenv("MOCK_CATEGORIES_DELAY", "0s")
	t.Setenv("MOCK_WORDS_DELAY", "0s")
	for k, v := range env {
		t.Setenv(k, v)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("service did not shut down in time after context cancellation")
		}
	})

	base := "http://" + addr
	waitCtx, waitCancel := context.WithTimeout(ctx, 10*time.Second)
	defer waitCancel()

	ready := testutil.WaitFor(t, waitCtx, 50*time.Millisecond, func() bool {
		resp, err := http.Get(base + "/readyz")
		if err != nil {
			return false
		}

		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})
	require.True(t, ready, "service never became ready")

	return base
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, []byte(testSecret), "user-1"))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type gameBody struct {
	ID    string `json:"id"`
	Empty bool   `json:"empty"`
	Round *struct {
		Guess1 string `json:"guess1"`
		Guess2 string `json:"guess2"`
	} `json:"round"`
}

func playOneRound(t *testing.T, base string) {
	t.Helper()

	var g gameBody
	status := call(t, "PUT", base+"/api/v1/games", map[string]any{"mode": "flashcards", "category_id": 0}, &g)
	require.Equal(t, http.StatusCreated, status)
	require.False(t, g.Empty)
	require.NotNil(t, g.Round)
	assert.NotEqual(t, g.Round.Guess1, g.Round.Guess2)

	var out struct {
		Word string `json:"word"`
	}
	status = call(t, "POST", base+"/api/v1/games/"+g.ID+"/answer", map[string]any{"direction": "left"}, &out)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out.Word)

	status = call(t, "DELETE", base+"/api/v1/games/"+g.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRun(t *testing.T) {
	base := startService(t, nil)

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/api/v1/languages")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var langs []struct {
		ISO639 string `json:"iso639"`
	}
	require.Equal(t, http.StatusOK, call(t, "GET", base+"/api/v1/languages", nil, &langs))
	require.Len(t, langs, 3)
	assert.Equal(t, "en", langs[0].ISO639)

	var words struct {
		Words []struct {
			Name string `json:"name"`
		} `json:"words"`
	}
	require.Equal(t, http.StatusOK, call(t, "GET", base+"/api/v1/words?q=OAK", nil, &words))
	require.Len(t, words.Words, 1)
	assert.Equal(t, "Oak", words.Words[0].Name)

	playOneRound(t, base)
}

func TestRun_SqliteCatalog(t *testing.T) {
	base := startService(t, map[string]string{
		"CATALOG_SOURCE": "sql",
		"DB_TYPE":        "sqlite",
		"DB_PATH":        filepath.Join(t.TempDir(), "catalog.db"),
	})

	var added struct {
		ID int64 `json:"id"`
	}
	status := call(t, "PUT", base+"/api/v1/words", map[string]any{"name": "Lantern", "category_id": 2}, &added)
	require.Equal(t, http.StatusCreated, status)
	assert.Positive(t, added.ID)

	status = call(t, "PUT", base+"/api/v1/words", map[string]any{"name": "Lantern", "category_id": 2}, nil)
	assert.Equal(t, http.StatusConflict, status)

	playOneRound(t, base)
}

func TestRun_InvalidCatalogSource(t *testing.T) {
	t.Setenv("AUTH_SECRET", testSecret)
	t.Setenv("CATALOG_SOURCE", "ftp")

	err := run(t.Context())
	require.Error(t, err)
}
