package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

const sessionContextKey = "kiosk_session"

// RequireSession is a middleware that checks the kiosk has an active,
// unexpired session before the request reaches a handler. The session is
// stored in the Gin context for handlers to read.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := services.GetSessionService().Current()
		// Guests carry no token, so this is an expiry check, not a
		// signed-in check.
		if session == nil || !time.Now().Before(session.ExpiresAt) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_SESSION",
					"message": "No active session. Start a guest session or sign in first.",
				},
			})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RequireAdmin is a middleware that checks the active session carries the
// admin flag. It must run after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NO_SESSION",
					"message": "No active session",
				},
			})
			c.Abort()
			return
		}

		if !session.Admin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Admin access required",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetSession extracts the active session from the Gin context
func GetSession(c *gin.Context) (*models.Session, error) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_SESSION", Message: "Session not found in context"}
	}

	session, ok := value.(*models.Session)
	if !ok {
		return nil, &AuthError{Code: "INVALID_SESSION", Message: "Session is not in the expected format"}
	}

	return session, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
