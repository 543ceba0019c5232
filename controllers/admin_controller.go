package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

// AdminListTables handles GET /api/v1/admin/tables - returns the live
// table list, falling back to the last cached snapshot when the remote API
// is unreachable so the floor view degrades to stale data instead of
// going blank
func AdminListTables(c *gin.Context) {
	tables, err := services.GetTableService().AllTables(c.Request.Context())
	if err != nil {
		if cached := services.GetTableService().CachedTables(); cached != nil {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    cached,
				"stale":   true,
			})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tables,
	})
}

// AdminUpdateTableStatusRequest represents the request body for changing a table's state
type AdminUpdateTableStatusRequest struct {
	Estado models.TableStatus `json:"estado" binding:"required"`
}

// AdminUpdateTableStatus handles PUT /api/v1/admin/tables/:id/status
func AdminUpdateTableStatus(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Table id must be a number", err)
		return
	}

	var req AdminUpdateTableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetTableService().UpdateStatus(c.Request.Context(), tableID, req.Estado); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table updated",
	})
}

// AdminAssignWaiterRequest represents the request body for assigning a waiter
type AdminAssignWaiterRequest struct {
	IDCamarero int `json:"id_camarero" binding:"required,gt=0"`
}

// AdminAssignWaiter handles PUT /api/v1/admin/tables/:id/waiter
func AdminAssignWaiter(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Table id must be a number", err)
		return
	}

	var req AdminAssignWaiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetTableService().AssignWaiter(c.Request.Context(), tableID, req.IDCamarero); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Waiter assigned",
	})
}

// AdminListOrders handles GET /api/v1/admin/orders - returns all orders
func AdminListOrders(c *gin.Context) {
	orders, err := services.GetOrderService().AllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// AdminUpdateOrderStatusRequest represents the request body for moving an order's status
type AdminUpdateOrderStatusRequest struct {
	Estado models.OrderStatus `json:"estado" binding:"required"`
}

// AdminUpdateOrderStatus handles PUT /api/v1/admin/orders/:id/status -
// staff acknowledge and progress orders with this
func AdminUpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Order id must be a number", err)
		return
	}

	var req AdminUpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetOrderService().UpdateStatus(c.Request.Context(), orderID, req.Estado); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order updated",
	})
}

// AdminListWaiters handles GET /api/v1/admin/waiters
func AdminListWaiters(c *gin.Context) {
	waiters, err := services.GetWaiterService().AllWaiters(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    waiters,
	})
}

// AdminCreateWaiterRequest represents the request body for creating a waiter
type AdminCreateWaiterRequest struct {
	Nombre string `json:"nombre" binding:"required"`
}

// AdminCreateWaiter handles POST /api/v1/admin/waiters
func AdminCreateWaiter(c *gin.Context) {
	var req AdminCreateWaiterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetWaiterService().CreateWaiter(c.Request.Context(), req.Nombre); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Waiter created",
	})
}

// AdminSetWaiterActiveRequest represents the request body for setting a waiter's shift
type AdminSetWaiterActiveRequest struct {
	Activo *bool `json:"activo" binding:"required"`
}

// AdminSetWaiterActive handles PUT /api/v1/admin/waiters/:id/active
func AdminSetWaiterActive(c *gin.Context) {
	waiterID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Waiter id must be a number", err)
		return
	}

	var req AdminSetWaiterActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetWaiterService().SetActive(c.Request.Context(), waiterID, *req.Activo); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Waiter updated",
	})
}

// AdminCreateProduct handles POST /api/v1/admin/products - proxies a
// product creation to the remote API
func AdminCreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetMenuService().CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created",
	})
}

// AdminUpdateProduct handles PUT /api/v1/admin/products/:id
func AdminUpdateProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Product id must be a number", err)
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}
	product.ID = productID

	if err := services.GetMenuService().UpdateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated",
	})
}

// AdminSetStockRequest represents the request body for flipping a product's stock flag
type AdminSetStockRequest struct {
	Stock *bool `json:"stock" binding:"required"`
}

// AdminSetStock handles PUT /api/v1/admin/products/:id/stock
func AdminSetStock(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondValidation(c, "Product id must be a number", err)
		return
	}

	var req AdminSetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.GetMenuService().SetStock(c.Request.Context(), productID, *req.Stock); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock updated",
	})
}

// AdminUploadProductImage handles POST /api/v1/admin/products/image -
// uploads a product photo and returns its storage key and URL. The caller
// then passes the URL along on product create or update.
func AdminUploadProductImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondValidation(c, "An image file is required", err)
		return
	}

	imageService := services.GetProductImageService()
	key, err := imageService.UploadProductImage(fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	url, err := imageService.ProductImageURL(key)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"key": key,
			"url": url,
		},
	})
}

// AdminSetVenueRequest represents the request body for opening or closing the venue
type AdminSetVenueRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// AdminSetVenue handles PUT /api/v1/admin/venue - flips the local venue
// open/closed flag that gates customer ordering
func AdminSetVenue(c *gin.Context) {
	var req AdminSetVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	if err := services.SetVenueOpen(*req.Open); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"open": *req.Open,
		},
	})
}
