package middleware

import (
	"net/http"
	"strings"

	"pawperfection/models"
	"pawperfection/repository"
	"pawperfection/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const UserKey = "currentUser"

// RequireAuth validates the Bearer access token and loads the
// authenticated user into the request context.
func RequireAuth(tokens *services.TokenService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"msg":     "Authorization token required",
				"success": false,
			})
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "), "access")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"msg":     "Invalid or expired token",
				"success": false,
			})
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"msg":     "Invalid or expired token",
				"success": false,
			})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"msg":     "User not found",
				"success": false,
			})
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user loaded by RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	if val, exists := c.Get(UserKey); exists {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}
