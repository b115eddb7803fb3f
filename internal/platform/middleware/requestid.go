// Package middleware holds the HTTP middleware chain: request identification,
// the authentication checkpoint, and the permission checkpoint. Order matters;
// the router mounts them in that sequence.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"backoffice/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id for log correlation. An id supplied
// by the client is kept; otherwise one is generated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}
