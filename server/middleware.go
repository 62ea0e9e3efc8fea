package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LoggingMiddleware tags every request with a short id and logs method,
// path and duration once the handler returns.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("http: %s %s id=%s dur=%s remote=%s",
			r.Method, r.URL.Path, id, time.Since(start), r.RemoteAddr)
	})
}
