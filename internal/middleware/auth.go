package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/red_social/internal/security"
	"github.com/mroshb/red_social/pkg/errors"
	"github.com/mroshb/red_social/pkg/result"
)

const (
	ctxUserID   = "user_id"
	ctxUserName = "user_name"
)

// JWTAuth resolves the caller from a bearer token. It replaces the session
// lookup: handlers read the identity with CurrentUser.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			result.FailWithMessage(c, errors.ErrCodeUnauthorized, "missing bearer token")
			return
		}

		claims, err := security.ValidateJWT(tokenString, secret)
		if err != nil {
			result.FailWithMessage(c, errors.ErrCodeUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserName, claims.Name)
		c.Next()
	}
}

// CurrentUser returns the authenticated user id and display name.
func CurrentUser(c *gin.Context) (uint, string) {
	return c.GetUint(ctxUserID), c.GetString(ctxUserName)
}
