// Package middleware provides HTTP middleware for the swsearch API.
package middleware

import (
	"log"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one line per request with its request ID, status, response
// size and duration. It should run after chi's RequestID middleware.
func Logger(next http.Handler) http.Handler {
	return LoggerTo(log.Default())(next)
}

// LoggerTo returns a Logger writing to l.
func LoggerTo(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				l.Printf("[%s] %s %s %d %dB %s",
					chimiddleware.GetReqID(r.Context()), r.Method, r.URL.Path,
					status, ww.BytesWritten(), time.Since(start).Round(time.Microsecond))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
