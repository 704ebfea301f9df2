package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "storefront_session"
	sessionKey    = "session_id"

	sessionMaxAge = 365 * 24 * 60 * 60
)

// Session resolves the shopper's session from the X-Session-ID header or the
// session cookie, issuing a fresh one when neither carries a valid UUID.
// The resolved ID is echoed back in both places.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := parseSession(c.GetHeader(SessionHeader))
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = parseSession(cookie)
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(sessionKey, id)
		c.Header(SessionHeader, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)

		c.Next()
	}
}

// SessionID returns the ID set by Session, or "" when the middleware did not
// run.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

func parseSession(raw string) string {
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}
