package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/canteen-pos/utils"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxToken  = "token"
	CtxClaims = "claims"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func setPrincipal(c *gin.Context, token string, claims *utils.CustomClaims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxToken, token)
	c.Set(CtxClaims, claims)
}

// AuthMiddleware requires a valid bearer token.
func AuthMiddleware(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authentication credentials were not provided"))
			c.Abort()
			return
		}

		claims, err := tm.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		setPrincipal(c, token, claims)
		c.Next()
	}
}

// OptionalAuth attaches the principal when a valid token is sent and lets
// anonymous requests through. A malformed or revoked token is still rejected.
func OptionalAuth(tm *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := tm.ParseToken(token)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}

		setPrincipal(c, token, claims)
		c.Next()
	}
}
