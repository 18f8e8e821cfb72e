// Package requesttime pins a single timestamp into the request context so
// every record written during one request carries the same time.
package requesttime

import (
	"net/http"
	"time"

	"traceability/pkg/requestcontext"
)

// Middleware injects the wall-clock time at request arrival into the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
