package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/waffle-wala/utils"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// AdminAuthMiddleware requires a valid, unrevoked admin bearer token.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		c.Set("role", claims.Role)
		c.Set("token", tokenString)
		c.Next()
	}
}

// WebSocketAuthMiddleware reads an optional ?token= and sets the role.
// Without a valid token the caller is a customer.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleCustomer
		if token := c.Query("token"); token != "" {
			claims, err := utils.ValidateToken(token)
			if err != nil {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			role = claims.Role
		}
		c.Set("role", role)
		c.Next()
	}
}
