package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
)

// StaffOnly must run after AuthMiddleware.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("authentication credentials were not provided"))
			c.Abort()
			return
		}

		if r, ok := role.(string); !ok || !models.IsStaffRole(r) {
			utils.RespondError(c, http.StatusForbidden, fmt.Errorf("staff access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
