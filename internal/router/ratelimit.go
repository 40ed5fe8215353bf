package router

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ovaphlow/pitchfork/service-tracker-go/pkg/utilities"
)

// maxTrackedClients bounds the limiter map; past it the map starts over.
const maxTrackedClients = 10000

// limiterRegistry hands out one token bucket per client key.
type limiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newLimiterRegistry(perSec float64, burst int) *limiterRegistry {
	return &limiterRegistry{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(perSec),
		burst:    burst,
	}
}

func (r *limiterRegistry) getOrCreate(key string) *rate.Limiter {
	r.mu.RLock()
	l, ok := r.limiters[key]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.limiters[key]; ok {
		return l
	}
	if len(r.limiters) >= maxTrackedClients {
		r.limiters = make(map[string]*rate.Limiter)
	}
	l = rate.NewLimiter(r.limit, r.burst)
	r.limiters[key] = l
	return l
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit throttles requests per client IP and answers 429 once the bucket is empty.
func RateLimit(perSec float64, burst int) func(http.Handler) http.Handler {
	reg := newLimiterRegistry(perSec, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !reg.getOrCreate(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				utilities.WriteMessage(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
