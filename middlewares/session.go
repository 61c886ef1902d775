package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "session_id"
	SessionKey    = "session_id"

	sessionCookieAge = 30 * 24 * 60 * 60
)

// SessionMiddleware resolves the client session from the X-Session-ID header
// or the session_id cookie and mints a new one when neither is a valid UUID.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			sid, _ = c.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sid, sessionCookieAge, "/", "", false, true)
		c.Header(SessionHeader, sid)
		c.Set(SessionKey, sid)
		c.Next()
	}
}

// SessionID returns the session resolved by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionKey)
}
