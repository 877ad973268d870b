package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxRateLimitedBody = 1 << 20

// limiterIdleTTL is how long a bucket must go unused before cleanup may drop it
const limiterIdleTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP and one per IP+email pair on the auth routes
type RateLimiter struct {
	ipLimiters      map[string]*bucket
	authLimiters    map[string]*bucket
	ipMutex         sync.Mutex
	authMutex       sync.Mutex
	ipLimiterRate   rate.Limit
	authLimiterRate rate.Limit
	ipBurst         int
	authBurst       int
	cleanupTicker   *time.Ticker
	done            chan struct{}
	now             func() time.Time
}

// NewRateLimiter creates a new rate limiter. Call Stop to release the cleanup goroutine.
func NewRateLimiter(ipRequestsPerSecond, authRequestsPerMinute float64, ipBurst, authBurst int) *RateLimiter {
	limiter := &RateLimiter{
		ipLimiters:      make(map[string]*bucket),
		authLimiters:    make(map[string]*bucket),
		ipLimiterRate:   rate.Limit(ipRequestsPerSecond),
		authLimiterRate: rate.Limit(authRequestsPerMinute / 60),
		ipBurst:         ipBurst,
		authBurst:       authBurst,
		cleanupTicker:   time.NewTicker(5 * time.Minute),
		done:            make(chan struct{}),
		now:             time.Now,
	}

	go limiter.cleanup()

	return limiter
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTicker.C:
			rl.evictIdle(rl.now())
		}
	}
}

// evictIdle drops buckets unused for limiterIdleTTL that have refilled completely.
// A drained bucket is kept so an attacker cannot wait out the sweep for a fresh budget.
func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.ipMutex.Lock()
	sweep(rl.ipLimiters, now)
	rl.ipMutex.Unlock()

	rl.authMutex.Lock()
	sweep(rl.authLimiters, now)
	rl.authMutex.Unlock()
}

func sweep(buckets map[string]*bucket, now time.Time) {
	for key, b := range buckets {
		if now.Sub(b.lastSeen) < limiterIdleTTL {
			continue
		}
		if b.limiter.TokensAt(now) >= float64(b.limiter.Burst()) {
			delete(buckets, key)
		}
	}
}

// Stop stops the rate limiter cleanup
func (rl *RateLimiter) Stop() {
	rl.cleanupTicker.Stop()
	select {
	case <-rl.done:
	default:
		close(rl.done)
	}
}

func (rl *RateLimiter) allowIP(ip string) bool {
	rl.ipMutex.Lock()
	defer rl.ipMutex.Unlock()
	return take(rl.ipLimiters, ip, rl.ipLimiterRate, rl.ipBurst, rl.now())
}

func (rl *RateLimiter) allowAuth(key string) bool {
	rl.authMutex.Lock()
	defer rl.authMutex.Unlock()
	return take(rl.authLimiters, key, rl.authLimiterRate, rl.authBurst, rl.now())
}

func take(buckets map[string]*bucket, key string, limit rate.Limit, burst int, now time.Time) bool {
	b, exists := buckets[key]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(limit, burst)}
		buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// IPRateLimiterMiddleware limits requests based on IP address
func (rl *RateLimiter) IPRateLimiterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allowIP(c.ClientIP()) {
			tooManyRequests(c, "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// AuthRateLimiterMiddleware limits credential attempts per IP and per submitted email
func (rl *RateLimiter) AuthRateLimiterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.allowIP(ip) {
			tooManyRequests(c, "rate limit exceeded")
			return
		}

		if c.Request.Method == http.MethodPost && c.Request.Body != nil {
			body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxRateLimitedBody))
			_ = c.Request.Body.Close()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
				return
			}
			// handlers bind the body again
			c.Request.Body = io.NopCloser(bytes.NewReader(body))

			var requestBody struct {
				Email string `json:"email"`
			}
			if json.Unmarshal(body, &requestBody) == nil {
				if email := strings.ToLower(strings.TrimSpace(requestBody.Email)); email != "" {
					if !rl.allowAuth(ip + ":" + email) {
						tooManyRequests(c, "too many authentication attempts, please try again later")
						return
					}
				}
			}
		}

		c.Next()
	}
}

func tooManyRequests(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"code":  "TOO_MANY_REQUESTS",
		"error": message,
	})
}
