package middleware

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/errors"
	"fintrack/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	defaultBurstSize   = 10
	visitorIdleTimeout = 3 * time.Minute
	visitorSweepEvery  = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter allows rps requests per second per IP with the given burst.
// A burst below one defaults to 10.
func NewRateLimiter(rps, burst int) *RateLimiter {
	if burst < 1 {
		burst = defaultBurstSize
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Middleware rejects requests over the limit with SYSTEM_006
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(c.RealIP()) {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

// Run sweeps idle visitors until ctx is done
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(visitorSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()

	return v.limiter.Allow()
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-visitorIdleTimeout)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) visitorCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
