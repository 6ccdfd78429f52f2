package middleware

import (
	"fmt"

	"github.com/classboard/gateway/internal/ratelimit"
	"github.com/classboard/gateway/internal/response"
	"github.com/gin-gonic/gin"
)

// RateLimit gates the route behind the named scope. The three X-RateLimit
// headers are set on every response; Retry-After only on denial.
func RateLimit(limiter *ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := limiter.Admit(c.Request.Context(), c.ClientIP(), scope)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", decision.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", decision.ResetAt))

		if !decision.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", decision.RetryAfter))
			response.AbortRateLimited(c, decision.RetryAfter)
			return
		}

		c.Next()
	}
}
