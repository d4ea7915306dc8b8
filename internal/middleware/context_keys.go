package middleware

import "github.com/gin-gonic/gin"

// SessionIDHeader carries the visitor's session identifier; the cookie is
// the fallback for browser clients.
const (
	SessionIDHeader = "X-Session-ID"
	SessionCookie   = "shop_session"
)

// GetSessionIDFromContext retrieves the visitor session ID from the request.
// It returns the ID and a boolean indicating if one was found.
func GetSessionIDFromContext(c *gin.Context) (string, bool) {
	if id := c.GetHeader(SessionIDHeader); id != "" {
		return id, true
	}
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id, true
	}
	return "", false
}
