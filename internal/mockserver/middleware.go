package mockserver

import (
	"log"
	"net/http"
	"runtime/debug"

	"circlepos/pkg/apierror"
	"circlepos/pkg/uid"
)

// Recovery recovers from handler panics and answers with a server error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write(apierror.Server("internal server error").ToJSON())
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// RequestID attaches a unique request ID to each request, honoring an
// existing X-Request-ID header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uid.New()
		}
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r)
	})
}
