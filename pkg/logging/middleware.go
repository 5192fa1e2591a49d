package logging

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SessionIDMiddleware tags each HTTP request on the progress server with the
// annotation session ID (or a fresh ID for out-of-band requests) and logs
// request/response pairs.
func SessionIDMiddleware(sessionID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionID
			if id == "" {
				id = uuid.New().String()
			}

			ctx := WithSessionID(r.Context(), id)
			r = r.WithContext(ctx)
			w.Header().Set("X-Session-ID", id)

			// Wrap response writer to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			if wrapped.statusCode >= 400 {
				ErrorContext(ctx, "request failed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", wrapped.statusCode,
					"durationMs", duration.Milliseconds(),
				)
			} else {
				DebugContext(ctx, "request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"status", wrapped.statusCode,
					"durationMs", duration.Milliseconds(),
				)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush implements http.Flusher for SSE support
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
