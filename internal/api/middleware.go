package api

import (
	"net/http"

	"examtrack/internal/auth"

	"github.com/gin-gonic/gin"
)

// sessionCookie is the cookie carrying the signed session token.
const sessionCookie = "session"

// userIDKey is the context key the session middleware sets for handlers.
const userIDKey = "userID"

// SessionRequired verifies the session cookie and stores the authenticated
// user id on the context. A missing or invalid session is never an error
// page: the browser is sent back to the login form.
func SessionRequired(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		userID, err := auth.UserIDFromToken(token, secret)
		if err != nil {
			c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID returns the user id set by SessionRequired.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
