package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader carries the request id back to the client
const RequestIDHeader = "X-Request-ID"

// EchoRequestID copies the id assigned by chi's RequestID middleware to the response
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimiddleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

// GetRequestID extracts the request ID from the request context
func GetRequestID(r *http.Request) string {
	return chimiddleware.GetReqID(r.Context())
}
