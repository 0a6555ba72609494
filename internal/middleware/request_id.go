package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is echoed on every response so clients can drop answers
// to requests they have already superseded.
const RequestIDHeader = "X-Request-ID"

// RequestID echoes the caller's request id, or generates one.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
