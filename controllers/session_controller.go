package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

// StartGuestRequest represents the request body for starting a guest session
type StartGuestRequest struct {
	TableID int `json:"table_id" binding:"required,gt=0"`
}

// StartGuest handles POST /api/v1/session/guest - begins an anonymous
// session bound to a table
func StartGuest(c *gin.Context) {
	var req StartGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	session := services.GetSessionService().StartGuest(req.TableID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    session,
	})
}

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/session/login - authenticates against the
// remote API and replaces the current session
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	session, err := services.GetSessionService().SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    session,
	})
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Nombre    string `json:"nombre" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
}

// Register handles POST /api/v1/session/register - creates a customer
// account on the remote API
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	profile := models.UserProfile{
		Nombre:    req.Nombre,
		Email:     req.Email,
		Direccion: req.Direccion,
		Telefono:  req.Telefono,
	}
	if err := services.GetUserService().Register(c.Request.Context(), profile, req.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created",
	})
}

// Logout handles POST /api/v1/session/logout - drops the session and the
// local cart
func Logout(c *gin.Context) {
	services.GetSessionService().SignOut()
	if cart := services.GetCartService(); cart != nil {
		cart.Clear()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}

// CurrentSession handles GET /api/v1/session - returns the active session,
// if any
func CurrentSession(c *gin.Context) {
	session := services.GetSessionService().Current()
	active := session != nil && time.Now().Before(session.ExpiresAt)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"session": session,
			"active":  active,
		},
	})
}
