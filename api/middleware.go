package api

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDMiddleware tags every request with an X-Request-ID, honoring
// one supplied by the caller.
func (s *Server) RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// RequestLogMiddleware logs incoming requests at debug level.
func (s *Server) RequestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("Request received", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": w.Header().Get("X-Request-ID"),
		})
		next.ServeHTTP(w, r)
	})
}
