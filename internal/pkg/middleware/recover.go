package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/SnapScribe/app/internal/pkg/router"
)

func Recover() router.Middleware {
	return RecoverWith(slog.Default())
}

// RecoverWith turns handler panics into 500 responses. A response that has
// already started, including a hijacked websocket, is left as is.
func RecoverWith(l *slog.Logger) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &httpStatusWriter{inner: w}
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				l.Error("internal server error",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"remote_addr", r.RemoteAddr,
					"status", sw.Status,
					"stack_trace", string(debug.Stack()),
				)

				if sw.Status == 0 {
					http.Error(sw, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
