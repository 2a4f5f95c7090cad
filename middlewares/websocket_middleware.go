package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
)

// WebSocketAuthMiddleware reads the token from ?token= (browsers cannot set
// headers on upgrade) or the Authorization header. Anonymous sessions are
// allowed unless requireStaff is set.
func WebSocketAuthMiddleware(tm *utils.TokenManager, requireStaff bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}

		if token == "" {
			if requireStaff {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
			return
		}

		claims, err := tm.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if requireStaff && !models.IsStaffRole(claims.Role) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		setPrincipal(c, token, claims)
		c.Next()
	}
}
