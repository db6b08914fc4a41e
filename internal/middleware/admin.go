package middleware

import (
	"net/http"

	"poolside/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group on the role claim set by AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("role")
		got, _ := v.(string)
		if !ok || got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// AdminRequired gates the store-management routes.
func AdminRequired() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
