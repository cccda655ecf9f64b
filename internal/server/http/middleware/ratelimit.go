package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/polkiloo/celestial/internal/server/http/dto"
)

// MsgTooManyRequests is returned once a client exhausts its budget.
const MsgTooManyRequests = "Too many requests. Please try again later."

const (
	limiterIdleTTL   = 10 * time.Minute
	limiterSweepSize = 1024
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client IP.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewClientLimiter creates a limiter allowing rps requests per second with
// the given burst for each client. A non-positive rps disables limiting.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may proceed.
func (l *ClientLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.clients[key]
	if !ok {
		if len(l.clients) >= limiterSweepSize {
			l.sweep(now)
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *ClientLimiter) sweep(now time.Time) {
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}

// RateLimit rejects requests from clients that exceeded their budget with 429.
func RateLimit(limiter *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Failure(MsgTooManyRequests))
			return
		}
		c.Next()
	}
}
