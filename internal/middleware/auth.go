package middleware

import (
	"net/http"

	"selfhelpblog/internal/db"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// Session keys
const (
	SessionUserID      = "user_id"
	SessionOAuthState  = "oauth_state"
	SessionAccessToken = "oauth_access_token"
	SessionTokenType   = "oauth_token_type"
)

// AuthRequired sends anonymous visitors to the login flow.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser retrieves user from session and sets to context
func LoadUser(store *db.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserID).(uint)

		if ok {
			user, err := store.GetUser(c.Request.Context(), userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			} else {
				// 用户已不存在，清理会话
				session.Delete(SessionUserID)
				session.Save()
			}
		}
		c.Next()
	}
}
