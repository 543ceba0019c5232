package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/services"
)

// ListProducts handles GET /api/v1/menu - returns the full product list
// plus the venue flag so the display can disable ordering when closed
func ListProducts(c *gin.Context) {
	products, err := services.GetMenuService().Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"products":   products,
			"venue_open": services.VenueOpen(),
		},
	})
}

// ListCategories handles GET /api/v1/menu/categories
func ListCategories(c *gin.Context) {
	categories, err := services.GetMenuService().Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// ListSubcategories handles GET /api/v1/menu/categories/:id/subcategories
func ListSubcategories(c *gin.Context) {
	categoryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Category id must be a number", err)
		return
	}

	subcategories, err := services.GetMenuService().Subcategories(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    subcategories,
	})
}

// DishesOfTheDay handles GET /api/v1/menu/dish-of-the-day
func DishesOfTheDay(c *gin.Context) {
	dishes, err := services.GetMenuService().DishesOfTheDay(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dishes,
	})
}
