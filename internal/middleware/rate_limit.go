package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/time/rate"

	"github.com/SkillNet-official/telegram-reminder-bot/internal/metrics"
)

// OwnerRateLimiter manages rate limiters per reminder owner
type OwnerRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// NewOwnerRateLimiter creates a new per-owner rate limiter
func NewOwnerRateLimiter(rps float64, burst int) *OwnerRateLimiter {
	return &OwnerRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// GetLimiter returns the rate limiter for a specific owner
func (rl *OwnerRateLimiter) GetLimiter(ownerID string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[ownerID]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Double-check after acquiring write lock
		limiter, exists = rl.limiters[ownerID]
		if !exists {
			limiter = rate.NewLimiter(rl.rate, rl.burst)
			rl.limiters[ownerID] = limiter
		}
		rl.mu.Unlock()
	}

	return limiter
}

// RateLimitMiddleware creates a rate limiting middleware keyed by owner_id
func RateLimitMiddleware(rl *OwnerRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.Query("owner_id")

		// If not in query, peek the JSON body without consuming it.
		if ownerID == "" {
			var req struct {
				OwnerID string `json:"owner_id"`
			}
			if err := c.ShouldBindBodyWith(&req, binding.JSON); err == nil {
				ownerID = req.OwnerID
			}
		}

		// Unidentified requests pass through; validation rejects them later.
		if ownerID == "" {
			c.Next()
			return
		}

		limiter := rl.GetLimiter(ownerID)

		if !limiter.Allow() {
			metrics.RateLimitExceeded.WithLabelValues(ownerID).Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
