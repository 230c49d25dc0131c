package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/waliamehak/staff-attendance-portal/internal/utils"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, 401, "Unauthorized, token missing or invalid")
			c.Abort()
			return
		}

		// Strip "Bearer " prefix if present
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.ErrorResponse(c, 401, "Unauthorized, token missing or invalid")
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			utils.ErrorResponse(c, 403, "Forbidden, "+role+" access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
