package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crewhub-backend/internal/auth"
)

// InitDataHeader carries the mini-app signed payload.
const InitDataHeader = "X-Telegram-Init-Data"

const (
	UserCtxKey   = "auth_user"
	UserIDCtxKey = "user_id"
)

// InitData validates the mini-app init-data header and stores the
// authenticated user in the request context.
func InitData(botToken string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		initData := c.GetHeader(InitDataHeader)
		if initData == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
			return
		}

		user, err := auth.VerifyUser(initData, botToken, maxAge)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(UserCtxKey, user)
		c.Set(UserIDCtxKey, user.ID)
		c.Next()
	}
}

// RequireAdmin allows only configured admin user IDs past. Must run after
// InitData.
func RequireAdmin(isAdmin func(int64) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := AuthUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing credential"})
			return
		}
		if !isAdmin(user.ID) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// AuthUser extracts the authenticated mini-app user from the context.
func AuthUser(c *gin.Context) (*auth.User, bool) {
	v, exists := c.Get(UserCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*auth.User)
	return user, ok
}
