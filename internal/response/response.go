package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Stable numeric codes carried by every error body.
const (
	CodeBadRequest      = 4000
	CodeUnauthenticated = 4010
	CodeInvalidToken    = 4011
	CodeForbidden       = 4030
	CodeNotFound        = 4040
	CodeRateLimited     = 4290
	CodeInternal        = 5000
)

type ErrorBody struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// Error writes a structured error body without aborting.
func Error(c *gin.Context, status, code int, message string) {
	c.JSON(status, ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().Unix(),
	})
}

// AbortError writes a structured error body and stops the handler chain.
func AbortError(c *gin.Context, status, code int, message string) {
	Error(c, status, code, message)
	c.Abort()
}

// AbortRateLimited writes the 429 body including the retry hint.
func AbortRateLimited(c *gin.Context, retryAfter int) {
	c.JSON(http.StatusTooManyRequests, ErrorBody{
		Code:       CodeRateLimited,
		Message:    "Rate limit exceeded",
		Timestamp:  time.Now().Unix(),
		RetryAfter: retryAfter,
	})
	c.Abort()
}
