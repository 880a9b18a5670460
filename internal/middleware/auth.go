// Package middleware provides HTTP middleware for the task management service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/visorry/task-management-system/internal/service"
)

// Context keys under which the auth gate stores the verified identity.
const (
	ContextUserIDKey   = "userID"
	ContextUsernameKey = "username"
)

// Identity is the verified caller identity injected by the auth gate.
type Identity struct {
	UserID   uuid.UUID
	Username string
}

// Auth returns the authentication gate every protected route passes
// through. It extracts the bearer token, verifies its signature, and
// injects the resolved identity into the request context. No database
// lookup happens here; the token signature alone is trusted.
func Auth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Next()
	}
}

// GetIdentity returns the identity injected by Auth. ok is false when the
// gate did not run, which means the route is misconfigured; handlers treat
// that as unauthenticated rather than guessing an owner.
func GetIdentity(c *gin.Context) (Identity, bool) {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		return Identity{}, false
	}
	id, ok := userID.(uuid.UUID)
	if !ok {
		return Identity{}, false
	}
	username := c.GetString(ContextUsernameKey)
	return Identity{UserID: id, Username: username}, true
}
