/*
Package limiter provides IP-based rate limiting for the relay's HTTP endpoints.

It uses the token bucket algorithm (rate.Limiter) per client IP and runs a
cleanup goroutine that removes idle limiters so the map does not grow without
bound.
*/
package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/x0x0b/chat-frontend/internal/pkg/logx"
)

// IPRateLimiter hands out one rate.Limiter per client IP address.
type IPRateLimiter struct {
	// mu protects concurrent access to the limits map.
	mu sync.RWMutex

	// limits maps client IP addresses to their limiter instance.
	limits map[string]*rate.Limiter

	// r is the sustained rate of events allowed per second.
	r rate.Limit

	// b is the burst size of the token bucket.
	b int
}

// NewIPRateLimiter creates an IPRateLimiter with rate r and burst b, and
// starts the background cleanup goroutine.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go i.cleanUpVisitors()

	return i
}

// GetLimiter returns the limiter for the given IP, creating one on first use.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, exists := i.limits[ip]
	i.mu.RUnlock()

	if !exists {
		i.mu.Lock()
		limiter, exists = i.limits[ip]
		if !exists {
			limiter = rate.NewLimiter(i.r, i.b)
			i.limits[ip] = limiter
		}
		i.mu.Unlock()
	}

	return limiter
}

// cleanUpVisitors periodically removes limiters whose buckets are full again,
// meaning the IP has been idle for at least one full refill window.
func (i *IPRateLimiter) cleanUpVisitors() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		count := 0
		for ip, limiter := range i.limits {
			if limiter.TokensAt(time.Now()) >= float64(limiter.Burst()) {
				delete(i.limits, ip)
				count++
			}
		}
		remaining := len(i.limits)
		i.mu.Unlock()

		logx.Info("Rate limiter cleanup finished.",
			"removed", count,
			"active", remaining,
		)
	}
}
