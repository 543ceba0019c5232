package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/controllers"
	"github.com/terraza-app/terraza-kiosk/middleware"
	"github.com/terraza-app/terraza-kiosk/models"
	"github.com/terraza-app/terraza-kiosk/services"
)

func main() {
	// Basic logging
	log.Println("Starting Terraza kiosk daemon...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the local store
	if err := config.ConnectStore(cfg.StorePath); err != nil {
		log.Fatalf("Failed to open local store: %v", err)
	}

	// Wire the services: session first, since the API client reads its
	// token on every request and drops it on a rejected one
	sessions := services.InitSessionService(cfg)
	client := services.InitAPIClient(cfg, sessions.Token)
	client.OnAuthFailure(func() {
		log.Println("Remote API rejected the token, dropping session")
		sessions.Invalidate()
	})

	services.InitMenuService(client)
	services.InitOrderService(client)
	services.InitTableService(client)
	services.InitWaiterService(client)
	services.InitUserService(client)
	services.InitCartService(cfg)
	services.InitCheckoutService()
	poller := services.InitPollService(cfg)

	// Product photos go to S3; the kiosk runs without them when the
	// bucket is not configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitProductImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, product image uploads disabled")
	}

	// Background polling keeps the cached table and order views current
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller.OnNewLines(func(orderID int, lines []models.OrderLine) {
		log.Printf("Order %d gained %d new line(s)", orderID, len(lines))
	})
	go poller.WatchTables(ctx)
	go poller.WatchOrders(ctx)
	if cfg.VenueTableID > 0 {
		go poller.WatchTable(ctx, cfg.VenueTableID)
	}

	// Initialize Gin router
	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Kiosk facade is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the local facade the kiosk display talks to.
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Session lifecycle
		v1.POST("/session/guest", controllers.StartGuest)
		v1.POST("/session/login", controllers.Login)
		v1.POST("/session/register", controllers.Register)
		v1.POST("/session/logout", controllers.Logout)
		v1.GET("/session", controllers.CurrentSession)

		// Menu browsing needs no session
		v1.GET("/menu", controllers.ListProducts)
		v1.GET("/menu/categories", controllers.ListCategories)
		v1.GET("/menu/categories/:id/subcategories", controllers.ListSubcategories)
		v1.GET("/menu/dish-of-the-day", controllers.DishesOfTheDay)

		// Customer flows require an active session
		authed := v1.Group("")
		authed.Use(middleware.RequireSession())
		{
			authed.GET("/cart", controllers.GetCart)
			authed.POST("/cart/lines", controllers.AddCartLine)
			authed.PUT("/cart/lines/:productId", controllers.UpdateCartLine)
			authed.DELETE("/cart/lines/:productId", controllers.RemoveCartLine)
			authed.DELETE("/cart", controllers.ClearCart)
			authed.POST("/cart/submit", controllers.SubmitCart)
			authed.GET("/order", controllers.TableOrder)

			authed.GET("/table", controllers.TableStatus)
			authed.POST("/table/call-waiter", controllers.CallWaiter)
			authed.POST("/table/request-bill", controllers.RequestBill)
			authed.PUT("/table/note", controllers.UpdateTableNote)
		}

		// Staff flows additionally require the admin flag
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireSession(), middleware.RequireAdmin())
		{
			admin.GET("/tables", controllers.AdminListTables)
			admin.PUT("/tables/:id/status", controllers.AdminUpdateTableStatus)
			admin.PUT("/tables/:id/waiter", controllers.AdminAssignWaiter)
			admin.GET("/orders", controllers.AdminListOrders)
			admin.PUT("/orders/:id/status", controllers.AdminUpdateOrderStatus)
			admin.GET("/waiters", controllers.AdminListWaiters)
			admin.POST("/waiters", controllers.AdminCreateWaiter)
			admin.PUT("/waiters/:id/active", controllers.AdminSetWaiterActive)
			admin.POST("/products", controllers.AdminCreateProduct)
			admin.PUT("/products/:id", controllers.AdminUpdateProduct)
			admin.PUT("/products/:id/stock", controllers.AdminSetStock)
			admin.POST("/products/image", controllers.AdminUploadProductImage)
			admin.PUT("/venue", controllers.AdminSetVenue)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Terraza kiosk is running",
	})
}
