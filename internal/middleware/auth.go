package middleware

import (
	"errors"
	"net/http"
	"strings"

	"shop/internal/auth"
	"shop/internal/model"
	"shop/internal/shop"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const userKey = "current_user"

// Auth requires a valid bearer token and loads the caller's user row into
// the context. The full row is loaded because checkout reads and backfills
// profile fields.
func Auth(tokens *auth.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "authentication required"})
			return
		}

		claims, err := tokens.ParseToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "invalid or expired token"})
			return
		}

		var user model.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "unknown user"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}

		c.Set(userKey, &user)
		c.Next()
	}
}

// RequireStaff gates admin routes. Must run after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": 403, "msg": shop.ErrPermissionDenied.Error()})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil outside Auth routes.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}
