package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline bounds each request context by timeout. Handlers observe expiry through ctx
// and report it themselves, so nothing is written here.
func Deadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
