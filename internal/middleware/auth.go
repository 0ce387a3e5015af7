package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blogd/internal/repository"
	"blogd/internal/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CurrentUserKey is the gin context key under which the resolved user is stored.
const CurrentUserKey = "currentUser"

// AuthMiddleware creates a Gin middleware that admits only requests carrying
// a valid access token. The token is read from the Authorization header or,
// failing that, the "token" cookie. On success the resolved user is placed
// into the gin context; handlers must never reconstruct it from client data.
func AuthMiddleware(codec *token.Codec, users repository.UserRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			c.Abort()
			return
		}

		claims, err := codec.Decode(tokenString)
		if err != nil {
			// The kind matters for logs, the caller only learns that auth failed.
			logger.Warn("Rejected token", zap.Error(err))
			if errors.Is(err, token.ErrExpired) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		if claims.Namespace != token.NamespaceAccess {
			logger.Warn("Rejected token with wrong namespace", zap.String("namespace", claims.Namespace))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// User deleted after the token was issued.
				logger.Warn("Token subject no longer exists", zap.String("subject", claims.Subject))
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				c.Abort()
				return
			}
			logger.Error("Failed to resolve token subject", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)

		c.Next()
	}
}

func extractToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}

	cookie, err := c.Cookie("token")
	if err != nil || cookie == "" {
		return "", false
	}
	return cookie, true
}
