package middleware

import (
	"sync"
	"time"

	"github.com/Felo0o0/PrimeSecure/adapters/gin/handler"
	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/utils/cache"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter gives every client IP its own token bucket. Buckets of
// clients idle for longer than ttl are dropped by the cache.
type IPRateLimiter struct {
	mu      sync.Mutex
	clients *cache.LRUCache[string, *rate.Limiter]
	rate    rate.Limit
	burst   int
	log     *log.Log
}

// DefaultMaxClients bounds the number of tracked client IPs.
const DefaultMaxClients = 10000

// NewIPRateLimiter allows r requests per second per IP with bursts of b.
func NewIPRateLimiter(r rate.Limit, b int, ttl time.Duration, logger *log.Log) *IPRateLimiter {
	if b < 1 {
		b = 1
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &IPRateLimiter{
		clients: cache.NewLRUCache[string, *rate.Limiter](cache.CacheConfig{MaxSize: DefaultMaxClients, TTL: ttl}),
		rate:    r,
		burst:   b,
		log:     logger,
	}
}

// Allow reports whether ip may make a request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.clients.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
	}
	// re-setting refreshes the idle timer
	l.clients.Set(ip, limiter)
	l.mu.Unlock()
	return limiter.Allow()
}

// Clients returns the number of tracked IPs.
func (l *IPRateLimiter) Clients() int {
	return l.clients.Len()
}

// Middleware rejects requests over the limit with 429 and an error envelope.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			handler.WriteError(c, l.log, blame.TooManyRequestsError(ip))
			return
		}
		c.Next()
	}
}
