// Package middleware holds the HTTP middleware the gateway mounts in front of
// its API handlers.
package middleware

import (
	"context"
	"net/http"

	"sqlgate/internal/domain"
)

const requestIDHeader = "X-Request-ID"

type ctxKeyRequestID struct{}

// RequestID tags every request with an ID for log and audit correlation. A
// caller-supplied X-Request-ID is honored; otherwise a UUIDv7 is minted so IDs
// sort by arrival time. The ID is echoed on the response and stored in the
// request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = domain.NewID()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), ctxKeyRequestID{}, id)))
	})
}

// RequestIDFromContext returns the request ID stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}
