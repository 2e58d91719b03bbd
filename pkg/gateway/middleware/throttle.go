package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle rate-limits requests per client IP. It protects credential
// endpoints (login, signup) from brute-force attempts. This is independent
// of the shared-quota admission path: it is purely in-process and keyed by
// remote address rather than identity.
type LoginThrottle struct {
	mu       sync.Mutex
	clients  map[string]*throttleEntry
	limit    rate.Limit
	burst    int
	maxIdle  time.Duration
	lastScan time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginThrottle creates a throttle allowing rps requests per second with
// the given burst per client IP. Idle client entries are pruned after ten
// minutes.
func NewLoginThrottle(rps float64, burst int) *LoginThrottle {
	return &LoginThrottle{
		clients: make(map[string]*throttleEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
		maxIdle: 10 * time.Minute,
	}
}

// Wrap returns a handler that throttles requests before invoking next.
// Throttled requests receive a 429 response.
func (t *LoginThrottle) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !t.allow(ip) {
			slog.WarnContext(r.Context(), "login throttle engaged",
				"remote_addr", ip,
				"path", r.URL.Path,
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":  "too many requests",
				"detail": "Too many attempts. Slow down and try again.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (t *LoginThrottle) allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.lastScan) > t.maxIdle {
		t.prune(now)
		t.lastScan = now
	}

	entry, ok := t.clients[ip]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// prune removes entries not seen within maxIdle. Caller holds the mutex.
func (t *LoginThrottle) prune(now time.Time) {
	for ip, entry := range t.clients {
		if now.Sub(entry.lastSeen) > t.maxIdle {
			delete(t.clients, ip)
		}
	}
}

// clientIP extracts the client IP from the request, stripping the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
