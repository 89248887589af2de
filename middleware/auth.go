package middleware

import (
	"net/http"
	"strings"

	"orderdesk-backend/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	ContextShopID = "shop_id"
	ContextToken  = "token"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextShopID, claims.ShopID)
		// forwarded as-is to the back office
		c.Set(ContextToken, token)
		c.Next()
	}
}

// StaffMiddleware admits admins and staff that belong to a shop.
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role != "admin" && role != "staff" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			c.Abort()
			return
		}

		if c.GetInt(ContextShopID) <= 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "No shop associated with this account"})
			c.Abort()
			return
		}

		c.Next()
	}
}
