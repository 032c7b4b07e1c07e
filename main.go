package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"event-marketplace-server/cache"
	"event-marketplace-server/config"
	"event-marketplace-server/database"
	"event-marketplace-server/jobs"
	"event-marketplace-server/middleware"
	"event-marketplace-server/models"
	"event-marketplace-server/routes"
	"event-marketplace-server/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize Redis for checkout locking (optional)
	if err := cache.Initialize(); err != nil {
		log.Fatal("Failed to initialize redis:", err)
	}

	// Optional demo data for local development
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		runSeed()
	}

	// Payment gateway is optional; without a Stripe key checkouts confirm
	// immediately
	var gateway services.PaymentGateway
	if sg, err := services.NewStripeGateway(); err != nil {
		log.Fatal("Failed to initialize payment gateway:", err)
	} else if sg != nil {
		gateway = sg
	}
	checkoutService := services.NewCheckoutService(gateway)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Disable automatic redirects for trailing slashes
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	// Security headers (must be first)
	router.Use(middleware.SecurityHeadersMiddleware())

	// Input validation
	router.Use(middleware.InputValidationMiddleware())

	// Rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// Secure CORS
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Event Marketplace Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Public catalog browse
		routes.RegisterListingRoutes(api)

		// Payment gateway callback (signature-authenticated, not JWT)
		routes.RegisterPaymentWebhook(api)

		// Organizer routes
		organizer := api.Group("")
		organizer.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleOrganizer))
		{
			routes.RegisterCartRoutes(organizer)
			routes.RegisterCheckoutRoutes(organizer, checkoutService)
			routes.RegisterBookingRoutes(organizer)
			routes.RegisterEventRoutes(organizer)
		}

		// Vendor routes
		vendor := api.Group("/vendor")
		vendor.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleVendor))
		{
			routes.RegisterVendorRoutes(vendor)
			routes.RegisterVendorProposalRoutes(vendor)
		}
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Start background jobs
	expirationJob := jobs.NewExpirationJob()
	expirationJob.Start()
	defer expirationJob.Stop()

	// Start token cleanup job
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			jwtService := services.NewJWTService()
			if err := jwtService.CleanupExpiredTokens(); err != nil {
				log.Printf("❌ Token cleanup failed: %v", err)
			}
		}
	}()

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
