package testutil

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

// GuestSession builds an anonymous session bound to a table, the state a
// kiosk is in after a customer touches the screen.
func GuestSession(tableID int) *models.Session {
	return &models.Session{
		TableID:   tableID,
		ClientID:  uuid.NewString(),
		Guest:     true,
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}
}

// AdminSession builds a signed-in staff session.
func AdminSession() *models.Session {
	return &models.Session{
		User:      &models.UserProfile{ID: 1, Nombre: "Encargado", Email: "staff@terraza.test", Admin: true},
		Token:     "test-staff-token",
		ClientID:  uuid.NewString(),
		Admin:     true,
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}
}

// StartGuestSession puts the live session service into a guest session at a
// table. SetupKiosk must have run first.
func StartGuestSession(tableID int) *models.Session {
	return services.GetSessionService().StartGuest(tableID)
}

// SetMockSessionContext places a session in the Gin context under the key
// the middleware uses, for handler-level tests that bypass RequireSession.
func SetMockSessionContext(c *gin.Context, session *models.Session) {
	c.Set("kiosk_session", session)
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
