package middleware

import (
	"fmt"
	"net/http"
	"time"
	"authguard/internal/models"
	"authguard/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimiter applies per-IP, per-route-class request budgets before any
// business logic runs.
type RateLimiter struct {
	limiter *ratelimit.Limiter
}

// NewRateLimiter creates the rate limiting middleware over the shared
// counter store.
func NewRateLimiter(limiter *ratelimit.Limiter) *RateLimiter {
	return &RateLimiter{limiter: limiter}
}

// Global returns the catch-all budget for state-changing requests. GET
// requests are exempt.
func (rl *RateLimiter) Global() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		rl.enforce(c, ratelimit.ClassGlobal)
	}
}

// ForClass returns the budget middleware for a specific route class.
func (rl *RateLimiter) ForClass(class ratelimit.RouteClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.enforce(c, class)
	}
}

func (rl *RateLimiter) enforce(c *gin.Context, class ratelimit.RouteClass) {
	decision, err := rl.limiter.Check(c.Request.Context(), c.ClientIP(), class)
	if err != nil {
		// Counter store unreachable: fail closed, no server-side retry.
		c.AbortWithStatusJSON(http.StatusServiceUnavailable,
			models.NewErrorEnvelope(http.StatusServiceUnavailable, "service temporarily unavailable"))
		return
	}

	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt.Unix()))

	if !decision.Allowed {
		retryAfter := int(decision.RetryAfter / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))

		envelope := models.NewErrorEnvelope(http.StatusTooManyRequests, "rate limit exceeded")
		envelope.Data = models.RateLimitInfo{
			Limit:      decision.Limit,
			Remaining:  0,
			ResetAt:    decision.ResetAt.Unix(),
			RetryAfter: retryAfter,
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, envelope)
		return
	}

	c.Next()
}
