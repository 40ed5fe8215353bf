package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/authn"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/issue"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/project"
	"github.com/ovaphlow/pitchfork/service-tracker-go/internal/user"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if lrw.status == 0 {
		lrw.status = code
	}
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

func (lrw *loggingResponseWriter) statusCode() int {
	if lrw.status == 0 {
		return http.StatusOK
	}
	return lrw.status
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			logger.Debugw("http request",
				"request_id", w.Header().Get(requestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", lrw.statusCode(),
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			// JSON API only; nothing here should ever load subresources
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Handlers groups the resource handlers mounted under /api.
type Handlers struct {
	Users    *user.Handler
	Projects *project.Handler
	Issues   *issue.Handler
}

// RegisterRoutes mounts every endpoint on a ServeMux. Routes that need a
// caller identity go through authn.Middleware; register and login are rate
// limited per client IP.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers, verifier authn.Verifier, cfg Config) http.Handler {
	mux := http.NewServeMux()
	protect := authn.Middleware(verifier, logger)
	limit := RateLimit(cfg.AuthRatePerSec, cfg.AuthBurst)
	metrics := NewMetrics()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	mux.Handle("POST /api/auth/register", limit(http.HandlerFunc(h.Users.Register)))
	mux.Handle("POST /api/auth/login", limit(http.HandlerFunc(h.Users.Login)))
	mux.Handle("GET /api/auth/me", protect(http.HandlerFunc(h.Users.Me)))

	mux.Handle("GET /api/projects", protect(http.HandlerFunc(h.Projects.List)))
	mux.Handle("POST /api/projects", protect(http.HandlerFunc(h.Projects.Create)))
	mux.Handle("PUT /api/projects/{id}", protect(http.HandlerFunc(h.Projects.Update)))
	mux.Handle("DELETE /api/projects/{id}", protect(http.HandlerFunc(h.Projects.Delete)))

	mux.HandleFunc("GET /api/issues/health", h.Issues.Health)
	mux.Handle("POST /api/issues", protect(http.HandlerFunc(h.Issues.Create)))
	mux.Handle("GET /api/issues/by-project/{projectId}", protect(http.HandlerFunc(h.Issues.ByProject)))
	mux.Handle("PATCH /api/issues/{id}/status/{status}", protect(http.HandlerFunc(h.Issues.ChangeStatus)))

	var handler http.Handler = metrics.Middleware(mux)
	handler = CORSMiddleware(cfg.AllowedOrigins)(handler)
	handler = SecurityHeadersMiddleware()(handler)
	handler = RequestIDMiddleware()(handler)
	return LoggingMiddleware(logger)(handler)
}
