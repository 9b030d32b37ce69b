package middleware

import (
	"net/http"
	"strings"

	"learningleague/internal/auth"
	"learningleague/internal/domain"

	"github.com/gin-gonic/gin"
)

// JWT validates the Authorization bearer token and stores user_id and
// role in the gin context for downstream handlers.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		userID, role, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// TutorOnly rejects requests whose token does not carry the tutor
// role. Must run after JWT.
func TutorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if role, ok := roleVal.(domain.Role); !ok || role != domain.RoleTutor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "tutor access required"})
			return
		}
		c.Next()
	}
}
