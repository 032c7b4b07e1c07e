package routes

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/database"
	"event-marketplace-server/middleware"
	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// RegisterAuthRoutes registers authentication routes
func RegisterAuthRoutes(router *gin.RouterGroup) {
	jwtService := services.NewJWTService()

	// Sign up endpoint
	router.POST("/signup", func(c *gin.Context) {
		var req struct {
			FullName        string `json:"full_name" binding:"required,min=2,max=100"`
			Email           string `json:"email" binding:"required,email"`
			PhoneNumber     string `json:"phone_number"`
			Password        string `json:"password" binding:"required,min=8,max=128"`
			ConfirmPassword string `json:"confirm_password" binding:"required"`
			Role            string `json:"role" binding:"omitempty,oneof=organizer vendor"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		req.FullName = strings.TrimSpace(req.FullName)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		// Check password confirmation
		if req.Password != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Password mismatch",
				"message": "Passwords do not match",
			})
			return
		}

		// Check if user already exists
		var existingUser models.User
		if err := database.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "User already exists",
				"message": "An account with this email already exists",
			})
			return
		}

		// Hash password
		hashedPassword, err := jwtService.HashPassword(req.Password)
		if err != nil {
			log.Printf("❌ Password hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to process password",
			})
			return
		}

		// Determine user role
		userRole := models.RoleOrganizer
		if strings.ToLower(req.Role) == "vendor" {
			userRole = models.RoleVendor
		}

		// Create user
		user := models.User{
			FullName:     req.FullName,
			Email:        req.Email,
			PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
			PasswordHash: hashedPassword,
			Role:         userRole,
			IsActive:     true,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("❌ User creation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to create account",
			})
			return
		}

		// Vendor profile creation is a separate step after signup

		// Generate tokens
		deviceID := c.GetHeader("X-Device-ID")
		userAgent := c.GetHeader("User-Agent")
		ipAddress := c.ClientIP()

		tokenPair, err := jwtService.GenerateTokenPair(&user, deviceID, userAgent, ipAddress)
		if err != nil {
			log.Printf("❌ Token generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to generate authentication tokens",
			})
			return
		}

		log.Printf("✅ User created successfully: %d", user.ID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Account created successfully",
			"data": gin.H{
				"user":   userPayload(&user),
				"tokens": tokenPair,
			},
		})
	})

	// Sign in endpoint
	router.POST("/signin", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		// Find user
		var user models.User
		if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Email or password is incorrect",
			})
			return
		}

		// Check if user is active
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Account deactivated",
				"message": "Your account has been deactivated",
			})
			return
		}

		// Verify password
		if !jwtService.CheckPasswordHash(req.Password, user.PasswordHash) {
			log.Printf("❌ Invalid password for user: %d", user.ID)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Email or password is incorrect",
			})
			return
		}

		// Revoke all existing tokens for security
		if err := jwtService.RevokeUserTokens(user.ID); err != nil {
			log.Printf("⚠️ Failed to revoke existing tokens for user %d: %v", user.ID, err)
		}

		// Generate new tokens
		deviceID := c.GetHeader("X-Device-ID")
		userAgent := c.GetHeader("User-Agent")
		ipAddress := c.ClientIP()

		tokenPair, err := jwtService.GenerateTokenPair(&user, deviceID, userAgent, ipAddress)
		if err != nil {
			log.Printf("❌ Token generation failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal server error",
				"message": "Failed to generate authentication tokens",
			})
			return
		}

		log.Printf("✅ User signed in successfully: %d", user.ID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Sign in successful",
			"data": gin.H{
				"user":   userPayload(&user),
				"tokens": tokenPair,
			},
		})
	})

	// Refresh token endpoint
	router.POST("/refresh", func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		deviceID := c.GetHeader("X-Device-ID")
		userAgent := c.GetHeader("User-Agent")
		ipAddress := c.ClientIP()

		tokenPair, err := jwtService.RefreshAccessToken(req.RefreshToken, deviceID, userAgent, ipAddress)
		if err != nil {
			log.Printf("❌ Token refresh failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid refresh token",
				"message": "Refresh token is invalid or expired",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Token refreshed successfully",
			"data": gin.H{
				"tokens": tokenPair,
			},
		})
	})

	// Sign out endpoint
	router.POST("/signout", middleware.AuthMiddleware(), func(c *gin.Context) {
		userID := c.GetUint("user_id")

		if err := jwtService.RevokeUserTokens(userID); err != nil {
			log.Printf("⚠️ Failed to revoke tokens for user %d: %v", userID, err)
		}

		log.Printf("✅ User signed out: %d", userID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Sign out successful",
		})
	})

	// Get current user endpoint
	router.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "User not found",
				"message": "User not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"user": userPayload(&user),
			},
		})
	})
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"full_name":    user.FullName,
		"email":        user.Email,
		"phone_number": user.PhoneNumber,
		"role":         user.Role,
		"is_active":    user.IsActive,
		"created_at":   user.CreatedAt,
	}
}
