package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/presentation/http/dto/response"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration // how often idle buckets are dropped
	IdleTTL           time.Duration
}

// RateLimiterConfigFor spreads requests allowed per duration into a steady
// rate, with the whole allowance available as a burst.
func RateLimiterConfigFor(requests int, duration time.Duration) RateLimiterConfig {
	cfg := RateLimiterConfig{
		RequestsPerSecond: 10,
		BurstSize:         20,
		CleanupInterval:   5 * time.Minute,
		IdleTTL:           10 * time.Minute,
	}
	if requests > 0 && duration > 0 {
		cfg.RequestsPerSecond = float64(requests) / duration.Seconds()
		cfg.BurstSize = requests
	}
	return cfg
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RestaurantRateLimiter keeps one token bucket per restaurant, so a busy
// till cannot starve the others.
type RestaurantRateLimiter struct {
	cfg     RateLimiterConfig
	mu      sync.Mutex
	buckets map[uuid.UUID]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewRestaurantRateLimiter creates the limiter and starts its cleanup loop.
// Call Close to stop the loop.
func NewRestaurantRateLimiter(cfg RateLimiterConfig) *RestaurantRateLimiter {
	rl := &RestaurantRateLimiter{
		cfg:     cfg,
		buckets: make(map[uuid.UUID]*bucket),
		stop:    make(chan struct{}),
	}
	if cfg.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}
	return rl
}

// Close stops the cleanup loop.
func (rl *RestaurantRateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RestaurantRateLimiter) limiterFor(restaurantID uuid.UUID, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[restaurantID]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.BurstSize)}
		rl.buckets[restaurantID] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (rl *RestaurantRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.evictIdle(now)
		case <-rl.stop:
			return
		}
	}
}

func (rl *RestaurantRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.cfg.IdleTTL)
	for id, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, id)
		}
	}
}

// Middleware applies the restaurant's bucket. It must run after
// RestaurantMiddleware; unscoped requests pass through.
func (rl *RestaurantRateLimiter) Middleware() gin.HandlerFunc {
	limit := strconv.Itoa(rl.cfg.BurstSize)
	return func(c *gin.Context) {
		restaurantID := GetRestaurantID(c)
		if restaurantID == uuid.Nil {
			c.Next()
			return
		}

		limiter := rl.limiterFor(restaurantID, time.Now())
		c.Header("X-RateLimit-Limit", limit)
		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			response.ErrorWithCode(c, http.StatusTooManyRequests, "Too many requests for this restaurant")
			c.Abort()
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

// Stats reports the number of tracked restaurants and the configured limits.
func (rl *RestaurantRateLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"active_restaurants": len(rl.buckets),
		"rate_per_second":    rl.cfg.RequestsPerSecond,
		"burst_size":         rl.cfg.BurstSize,
	}
}
