package middleware

import (
	"net/http"
	"sync"
	"time"

	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var ErrTooManyRequests = apperror.New(
	apperror.CodeTooMany,
	"Too many requests, slow down",
	http.StatusTooManyRequests,
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore hands out one token bucket per key and forgets keys that
// have been idle for limiterIdleTTL.
type limiterStore struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	entries   map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	return &limiterStore{
		rps:     rate.Limit(rps),
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (s *limiterStore) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > limiterIdleTTL {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

func rateLimit(store *limiterStore, key func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.allow(key(c)) {
			response.FromError(c, ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RateLimitByIP(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(newLimiterStore(rps, burst), func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitBySession must run after Session. Requests without a session fall
// back to the client IP.
func RateLimitBySession(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(newLimiterStore(rps, burst), func(c *gin.Context) string {
		if id := SessionID(c); id != "" {
			return "session:" + id
		}
		return "ip:" + c.ClientIP()
	})
}
