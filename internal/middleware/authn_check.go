package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"io.winapps.casportfolio/internal/auth"
)

// SessionValidator checks an admin session token
type SessionValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AdminSession requires a valid admin session cookie and marks the request
// as admin in the context
func AdminSession(sessions SessionValidator, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin session required"})
			return
		}

		claims, err := sessions.Validate(token)
		if err != nil {
			if logger != nil {
				logger.Infow("rejected admin session",
					"request_id", c.GetString("request_id"),
					"path", c.Request.URL.Path,
					"error", err,
				)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin session required"})
			return
		}

		c.Set("admin", claims.Subject)
		c.Next()
	}
}
