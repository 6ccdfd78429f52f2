package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/classboard/gateway/internal/response"
	"github.com/classboard/gateway/internal/service"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Identity returns the verified caller identity, if any stage attached one.
func Identity(c *gin.Context) (*service.CallerIdentity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}

	identity, ok := v.(*service.CallerIdentity)
	return identity, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

// Validates JWT token and requires authentication
func RequireAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			response.AbortError(c, http.StatusUnauthorized, response.CodeUnauthenticated,
				"Authorization header required. Use: Bearer <token>")
			return
		}

		identity, err := tokens.VerifyToken(tokenString)
		if err != nil {
			code := response.CodeUnauthenticated
			if errors.Is(err, service.ErrMissingAdminID) {
				code = response.CodeInvalidToken
			}
			response.AbortError(c, http.StatusUnauthorized, code, "Invalid or expired token")
			return
		}

		c.Set(identityKey, identity)

		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present but lets
// anonymous and badly-credentialed callers through. Routes serving both
// anonymous and authenticated traffic defer the access decision downstream.
func OptionalAuth(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		identity, err := tokens.VerifyToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, identity)

		c.Next()
	}
}
