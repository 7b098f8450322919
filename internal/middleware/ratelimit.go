package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// visitor is the limiter state of one client IP.
type visitor struct {
	limiter    *rate.Limiter
	lastSeen   time.Time
	lastWarned time.Time
}

// IPRateLimiter manages per-IP rate limiters. Idle entries are evicted and
// the rate-limit warning is logged at most once per quiet period per IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	quiet    time.Duration
	now      func() time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    burst,
		quiet:    time.Minute,
		now:      time.Now,
	}
}

// allow consumes a token for ip. warn is true when a rejection should be
// logged.
func (i *IPRateLimiter) allow(ip string) (ok, warn bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	v, exists := i.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.rate, i.burst)}
		i.visitors[ip] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, false
	}
	if now.Sub(v.lastWarned) < i.quiet {
		return false, false
	}
	v.lastWarned = now
	return false, true
}

// Evict drops visitors idle for longer than maxIdle and returns how many
// were dropped.
func (i *IPRateLimiter) Evict(maxIdle time.Duration) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := i.now().Add(-maxIdle)
	n := 0
	for ip, v := range i.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(i.visitors, ip)
			n++
		}
	}
	return n
}

// Run evicts idle visitors every interval until ctx is done.
func (i *IPRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.Evict(interval)
		}
	}
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ok, warn := i.allow(ip)
		if !ok {
			if warn {
				zerolog.Ctx(c.Request.Context()).Warn().
					Str("client_ip", ip).
					Str("path", c.Request.URL.Path).
					Msg("rate limit exceeded")
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
