package proxy

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// Route sends every request matching Pattern to Upstream unchanged.
type Route struct {
	Pattern  string
	Upstream *url.URL
}

type mux interface {
	Handle(pattern string, handler http.Handler)
}

// Mount registers a reverse proxy per route. Websocket upgrades are forwarded as is.
func Mount(m mux, routes ...Route) {
	for _, rt := range routes {
		m.Handle(rt.Pattern, newReverseProxy(rt.Upstream))
	}
}

func newReverseProxy(upstream *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(upstream)
			// upstreams check websocket origins against the public host
			r.Out.Host = r.In.Host
			r.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("upstream request failed",
				"error", err,
				"upstream", upstream.String(),
				"method", r.Method,
				"url", r.URL.String(),
			)
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		},
	}
}
