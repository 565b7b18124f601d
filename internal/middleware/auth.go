package middleware

import (
	"net/http"
	"strings"

	"kassa_backend/internal/auth"
	"kassa_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - проверка JWT клиента JSON API
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(secret, tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "invalid api token", "error", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("clientID", claims.Subject)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequirePermission - доступ только для ролей с разрешением permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		roleStr, ok := role.(string)
		if !ok || !auth.HasPermission(roleStr, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}
		c.Next()
	}
}

// GetClientID извлекает subject токена из контекста
func GetClientID(c *gin.Context) string {
	clientID, exists := c.Get("clientID")
	if !exists {
		return ""
	}

	id, ok := clientID.(string)
	if !ok {
		return ""
	}

	return id
}
