package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/SnapScribe/app/internal/pkg/router"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstream(t *testing.T, name string) *url.URL {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", name)
		w.Header().Set("X-Seen-Forwarded-Host", r.Header.Get("X-Forwarded-Host"))
		_, _ = io.WriteString(w, r.Method+" "+r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u
}

func TestMount(t *testing.T) {
	r := router.New()
	Mount(r,
		Route{Pattern: "/api/v1/auth/", Upstream: upstream(t, "auth")},
		Route{Pattern: "/api/v1/", Upstream: upstream(t, "words")},
		Route{Pattern: "GET /image/", Upstream: upstream(t, "image")},
	)
	gw := httptest.NewServer(r)
	defer gw.Close()

	tests := []struct {
		method   string
		path     string
		upstream string
	}{
		{"POST", "/api/v1/auth/anonymous", "auth"},
		{"GET", "/api/v1/words", "words"},
		{"PUT", "/api/v1/games", "words"},
		{"GET", "/image/abc.jpg", "image"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, gw.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.upstream, resp.Header.Get("X-Upstream"))
			assert.Equal(t, tt.method+" "+tt.path, string(body))
			assert.NotEmpty(t, resp.Header.Get("X-Seen-Forwarded-Host"))
		})
	}
}

func TestMount_UploadNotExposed(t *testing.T) {
	r := router.New()
	Mount(r, Route{Pattern: "GET /image/", Upstream: upstream(t, "image")})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/upload", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMount_UpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	srv.Close()

	r := router.New()
	Mount(r, Route{Pattern: "/api/v1/", Upstream: u})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/words", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMount_KeepsInboundHost(t *testing.T) {
	hosts := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hosts <- r.Host
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	r := router.New()
	Mount(r, Route{Pattern: "/api/v1/", Upstream: u})

	req := httptest.NewRequest("GET", "http://snapscribe.example/api/v1/words", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "snapscribe.example", <-hosts)
}

func TestMount_WebsocketWithOrigin(t *testing.T) {
	upgrader := websocket.Upgrader{}
	words := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		_ = conn.WriteJSON(msg)
	}))
	defer words.Close()
	u, err := url.Parse(words.URL)
	require.NoError(t, err)

	r := router.New()
	Mount(r, Route{Pattern: "/api/v1/", Upstream: u})
	gw := httptest.NewServer(r)
	defer gw.Close()

	wsURL := "ws" + strings.TrimPrefix(gw.URL, "http") + "/api/v1/games/g1/swipe"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {gw.URL}})
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "begin"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var echo map[string]any
	require.NoError(t, conn.ReadJSON(&echo))
	assert.Equal(t, "begin", echo["type"])
}
