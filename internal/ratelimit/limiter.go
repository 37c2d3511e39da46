// Package ratelimit throttles repeated attempts from one client IP.
package ratelimit

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var rateLimitExceeded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "syucap",
		Name:      "ratelimit_exceeded_total",
		Help:      "Total rate limit rejections",
	},
	[]string{"scope"},
)

// Config holds rate limiting configuration
type Config struct {
	Rate  rate.Limit // attempts per second per IP
	Burst int

	// Limiters idle for longer than IdleTTL are dropped on cleanup.
	IdleTTL         time.Duration
	CleanupInterval time.Duration
}

// DefaultConfig allows five quick attempts, then one per second.
func DefaultConfig() Config {
	return Config{
		Rate:            1,
		Burst:           5,
		IdleTTL:         10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client IP.
type Limiter struct {
	config Config
	scope  string

	mu          sync.Mutex
	perIP       map[string]*visitor
	lastCleanup time.Time
	now         func() time.Time
}

// New creates a new rate limiter with the given config. scope labels the
// rejection metric.
func New(scope string, config Config) *Limiter {
	return &Limiter{
		config:      config,
		scope:       scope,
		perIP:       make(map[string]*visitor),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Allow reports whether clientIP may make another attempt now.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	now := l.now()
	v, ok := l.perIP[clientIP]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.config.Rate, l.config.Burst)}
		l.perIP[clientIP] = v
	}
	v.lastSeen = now
	l.cleanupLocked(now)
	l.mu.Unlock()

	if !v.limiter.AllowN(now, 1) {
		rateLimitExceeded.WithLabelValues(l.scope).Inc()
		return false
	}
	return true
}

// cleanupLocked drops idle visitors once per CleanupInterval.
func (l *Limiter) cleanupLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < l.config.CleanupInterval {
		return
	}
	for ip, v := range l.perIP {
		if now.Sub(v.lastSeen) > l.config.IdleTTL {
			delete(l.perIP, ip)
		}
	}
	l.lastCleanup = now
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.perIP)
}

// Middleware rejects requests over the limit with onLimit, or with a plain
// 429 when onLimit is nil.
func Middleware(l *Limiter, onLimit fiber.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.Allow(c.IP()) {
			return c.Next()
		}
		if onLimit != nil {
			return onLimit(c)
		}
		return fiber.NewError(fiber.StatusTooManyRequests, "too many attempts, try again later")
	}
}
