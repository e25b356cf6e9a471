package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/lifebeyond/planner-api/internal/models"
)

// RateLimiter enforces a per-IP request quota with two token buckets: a
// sustained per-minute quota and a per-second burst cap. Both must admit a
// request for it to pass.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	perMinute  int
	perSecond  int
	trustProxy bool
	log        *logrus.Logger
}

type visitor struct {
	minute   *rate.Limiter
	second   *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter initializes a limiter allowing perMinute requests per
// minute and bursts of perSecond requests per second, per client IP.
func NewRateLimiter(perMinute, perSecond int, trustProxy bool, log *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		visitors:   make(map[string]*visitor),
		perMinute:  perMinute,
		perSecond:  perSecond,
		trustProxy: trustProxy,
		log:        log,
	}
}

// Middleware rejects over-quota requests with a 429 envelope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.clientIP(r)
		v := rl.visitor(ip)

		if !v.second.Allow() {
			rl.reject(w, ip, "1")
			return
		}
		if !v.minute.Allow() {
			rl.reject(w, ip, "60")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) visitor(ip string) *visitor {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{
			minute: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute),
			second: rate.NewLimiter(rate.Limit(rl.perSecond), rl.perSecond),
		}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v
}

func (rl *RateLimiter) reject(w http.ResponseWriter, ip, retryAfter string) {
	rl.log.WithFields(logrus.Fields{"ip": ip}).Warn("rate limit exceeded")
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", retryAfter)
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		StatusCode: http.StatusTooManyRequests,
		ErrorCode:  "RATE_LIMIT_EXCEEDED",
		Message:    "Too many requests. Please try again later.",
		Details:    map[string]any{"retry_after": retryAfter},
	})
}

// Cleanup evicts visitors idle longer than maxIdle. Scheduled from main via
// cron so the map does not grow without bound.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) clientIP(r *http.Request) string {
	if rl.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
