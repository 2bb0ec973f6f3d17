package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/pkg/jwt"
)

const userIDKey = "userID"

// BearerAuth verifies an optional bearer token and stores its subject as the
// caller. A present but invalid token is always rejected. Without a token the
// request continues anonymously unless required is set.
// A nil manager (no secret configured) skips verification entirely.
func BearerAuth(jwtManager *jwt.Manager, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtManager == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			if required {
				common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header")
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired")
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		c.Set(userIDKey, claims.UserID())
		c.Next()
	}
}

// GetUserID returns the verified caller id, or "" for anonymous requests
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return ""
	}
	if str, ok := userID.(string); ok {
		return str
	}
	return ""
}
