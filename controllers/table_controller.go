package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/middleware"
	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

// CallWaiter handles POST /api/v1/table/call-waiter - raises the
// waiter-called flag on the session's table
func CallWaiter(c *gin.Context) {
	tableID, ok := sessionTable(c)
	if !ok {
		return
	}

	message, err := services.GetWaiterService().CallWaiter(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// RequestBill handles POST /api/v1/table/request-bill - raises the
// bill-requested flag on the session's table
func RequestBill(c *gin.Context) {
	tableID, ok := sessionTable(c)
	if !ok {
		return
	}

	message, err := services.GetWaiterService().RequestBill(c.Request.Context(), tableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

// TableStatus handles GET /api/v1/table - returns the session's table as
// the poll loop last saw it. A table the kiosk has never seen in a poll
// falls back to a live fetch.
func TableStatus(c *gin.Context) {
	tableID, ok := sessionTable(c)
	if !ok {
		return
	}

	for _, table := range services.GetTableService().CachedTables() {
		if table.ID == tableID {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    table,
			})
			return
		}
	}

	tables, err := services.GetTableService().AllTables(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	for _, table := range tables {
		if table.ID == tableID {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    table,
			})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "TABLE_NOT_FOUND",
			"message": fmt.Sprintf("No table with id %d", tableID),
		},
	})
}

// UpdateTableNoteRequest represents the request body for updating the table note
type UpdateTableNoteRequest struct {
	Nota string `json:"nota"`
}

// UpdateTableNote handles PUT /api/v1/table/note - sets the free-form note
// on the session's table
func UpdateTableNote(c *gin.Context) {
	tableID, ok := sessionTable(c)
	if !ok {
		return
	}

	var req UpdateTableNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetTableService().UpdateNote(c.Request.Context(), tableID, req.Nota); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note updated",
	})
}

// sessionTable resolves the active session's table id, writing the error
// response itself when there is none.
func sessionTable(c *gin.Context) (int, bool) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	if session.TableID <= 0 {
		respondError(c, models.NewAPIError(models.ErrValidation, "session has no table"))
		return 0, false
	}
	return session.TableID, true
}
