package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/utils"
)

// respondError writes the standard error envelope for a failure. Errors
// carrying a taxonomy code keep it; everything else becomes UNKNOWN_ERROR.
func respondError(c *gin.Context, err error) {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.HTTPStatus(), gin.H{
			"success": false,
			"error": gin.H{
				"code":    string(apiErr.Code),
				"message": apiErr.Message,
			},
		})
		return
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    string(models.ErrUnknown),
			"message": err.Error(),
		},
	})
}

// respondValidation writes a 400 with a VALIDATION_ERROR envelope for a
// malformed request body or parameter.
func respondValidation(c *gin.Context, message string, err error) {
	body := gin.H{
		"code":    string(models.ErrValidation),
		"message": message,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   body,
	})
}
