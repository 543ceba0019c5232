package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/middleware"
	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

// GetCart handles GET /api/v1/cart - returns the local cart with totals
func GetCart(c *gin.Context) {
	cart := services.GetCartService().Cart()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"lines": cart.Lines,
			"count": cart.Count(),
			"total": cart.Total(),
		},
	})
}

// AddCartLineRequest represents the request body for adding a cart line
type AddCartLineRequest struct {
	ProductID int    `json:"product_id" binding:"required,gt=0"`
	Cantidad  int    `json:"cantidad" binding:"required,gt=0"`
	Nota      string `json:"nota"`
}

// AddCartLine handles POST /api/v1/cart/lines - adds a product to the
// local cart. The product is resolved against the menu so the cart carries
// its current price.
func AddCartLine(c *gin.Context) {
	var req AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	products, err := services.GetMenuService().Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var product *models.Product
	for i := range products {
		if products[i].ID == req.ProductID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": fmt.Sprintf("No product with id %d on the menu", req.ProductID),
			},
		})
		return
	}
	if !product.Stock {
		respondError(c, models.NewAPIError(models.ErrValidation, fmt.Sprintf("%s is out of stock", product.Nombre)))
		return
	}

	services.GetCartService().AddLine(*product, req.Cantidad, req.Nota)
	GetCart(c)
}

// UpdateCartLineRequest represents the request body for changing a line's quantity
type UpdateCartLineRequest struct {
	Cantidad int    `json:"cantidad"`
	Nota     string `json:"nota"`
}

// UpdateCartLine handles PUT /api/v1/cart/lines/:productId - sets quantity
// and note on a cart line. A quantity of zero removes the line.
func UpdateCartLine(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		respondValidation(c, "Product id must be a number", err)
		return
	}

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	cart := services.GetCartService()
	cart.SetQuantity(productID, req.Cantidad)
	if req.Nota != "" {
		cart.SetNote(productID, req.Nota)
	}
	GetCart(c)
}

// RemoveCartLine handles DELETE /api/v1/cart/lines/:productId
func RemoveCartLine(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		respondValidation(c, "Product id must be a number", err)
		return
	}

	services.GetCartService().Remove(productID)
	GetCart(c)
}

// ClearCart handles DELETE /api/v1/cart
func ClearCart(c *gin.Context) {
	services.GetCartService().Clear()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}

// SubmitCartRequest represents the request body for submitting the cart
type SubmitCartRequest struct {
	OrderType *int `json:"order_type" binding:"required"`
}

// SubmitCart handles POST /api/v1/cart/submit - reconciles the local cart
// against the table's server-side order. The cart is cleared only after
// the whole reconciliation resolves without error; a failure leaves it
// untouched so the customer can retry.
func SubmitCart(c *gin.Context) {
	var req SubmitCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request data", err)
		return
	}

	result, err := services.GetCheckoutService().Submit(c.Request.Context(), models.OrderType(*req.OrderType))
	if err != nil {
		respondError(c, err)
		return
	}

	services.GetCartService().Clear()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// TableOrder handles GET /api/v1/order - returns the active order of the
// session's table. The poll loop keeps the cached copy fresh; a cache miss
// falls through to a live fetch.
func TableOrder(c *gin.Context) {
	session, err := middleware.GetSession(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if session.TableID <= 0 {
		respondError(c, models.NewAPIError(models.ErrValidation, "session has no table"))
		return
	}

	key := fmt.Sprintf("order/table/%d", session.TableID)
	if value, ok := services.GetQueryCache().Peek(key); ok {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    value,
		})
		return
	}

	order, err := services.GetOrderService().OrderByTable(c.Request.Context(), session.TableID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
