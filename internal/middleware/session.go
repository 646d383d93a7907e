package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the anonymous session id the cart
// lives under.
const SessionCookie = "shop_session"

const sessionKey = "session_id"

// Session assigns every caller a session id, minting one on first contact.
// Carts work for anonymous visitors; only checkout needs an account.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			sid = uuid.New().String()
			c.SetCookie(SessionCookie, sid, 0, "/", "", false, true)
		}
		c.Set(sessionKey, sid)
		c.Next()
	}
}

// SessionID returns the caller's session id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
