package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hospitality-suite/utils"
)

// WebSocketAuthMiddleware authenticates websocket upgrades via a query token,
// since browsers cannot set headers on websocket handshakes.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
