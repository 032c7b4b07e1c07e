package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// vendorProfile loads the calling vendor's profile. A vendor with no profile
// yet gets InvalidState so the client knows to create one first.
func vendorProfile(c *gin.Context) (*models.VendorProfile, error) {
	userID := c.GetUint("user_id")

	var profile models.VendorProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.InvalidState("vendor profile required, create one first")
	}
	return nil, apperrors.Internal("failed to load vendor profile", err)
}

// RegisterVendorRoutes registers vendor profile and listing management routes.
// All routes require the vendor role.
func RegisterVendorRoutes(router *gin.RouterGroup) {
	fulfillmentService := services.NewFulfillmentService()

	// Create vendor profile
	router.POST("/profile", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req models.VendorProfileCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		if !models.IsValidListingCategory(req.Category) {
			respondError(c, apperrors.Validation("unknown listing category"))
			return
		}

		var existing models.VendorProfile
		if err := database.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
			respondError(c, apperrors.InvalidState("vendor profile already exists"))
			return
		}

		profile := models.VendorProfile{
			UserID:      userID,
			CompanyName: req.CompanyName,
			Category:    models.ListingCategory(req.Category),
			City:        req.City,
			Description: req.Description,
		}
		if err := database.DB.Create(&profile).Error; err != nil {
			respondError(c, apperrors.Internal("failed to create vendor profile", err))
			return
		}

		log.Printf("✅ Vendor profile created: %d (user %d)", profile.ID, userID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    gin.H{"profile": profile},
		})
	})

	// Get own vendor profile
	router.GET("/profile", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"profile": profile},
		})
	})

	// Create a listing
	router.POST("/listings", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var req models.ListingCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}
		if !models.IsValidListingCategory(req.Category) {
			respondError(c, apperrors.Validation("unknown listing category"))
			return
		}

		priceType := models.PriceTypeFixed
		if req.PriceType != "" {
			priceType = models.PriceType(req.PriceType)
		}

		listing := models.ServiceListing{
			VendorID:    profile.ID,
			Category:    models.ListingCategory(req.Category),
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			PriceMax:    req.PriceMax,
			PriceType:   priceType,
			City:        req.City,
			ImageURL:    req.ImageURL,
			IsActive:    true,
		}
		if err := database.DB.Create(&listing).Error; err != nil {
			respondError(c, apperrors.Internal("failed to create listing", err))
			return
		}

		log.Printf("✅ Listing created: %d by vendor %d", listing.ID, profile.ID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    gin.H{"listing": listing},
		})
	})

	// List own listings, inactive included
	router.GET("/listings", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}

		var listings []models.ServiceListing
		if err := database.DB.Where("vendor_id = ?", profile.ID).
			Order("created_at DESC").
			Find(&listings).Error; err != nil {
			respondError(c, apperrors.Internal("failed to load listings", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"listings": listings},
		})
	})

	// Update a listing
	router.PUT("/listings/:id", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var listing models.ServiceListing
		if err := database.DB.First(&listing, id).Error; err != nil {
			respondError(c, apperrors.NotFound("listing"))
			return
		}
		if listing.VendorID != profile.ID {
			respondError(c, apperrors.Forbidden("listing"))
			return
		}

		var req models.ListingCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}
		if !models.IsValidListingCategory(req.Category) {
			respondError(c, apperrors.Validation("unknown listing category"))
			return
		}

		listing.Category = models.ListingCategory(req.Category)
		listing.Title = req.Title
		listing.Description = req.Description
		listing.Price = req.Price
		listing.PriceMax = req.PriceMax
		if req.PriceType != "" {
			listing.PriceType = models.PriceType(req.PriceType)
		}
		listing.City = req.City
		listing.ImageURL = req.ImageURL

		if err := database.DB.Save(&listing).Error; err != nil {
			respondError(c, apperrors.Internal("failed to update listing", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"listing": listing},
		})
	})

	// Activate or deactivate a listing
	router.PATCH("/listings/:id/active", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var req struct {
			IsActive *bool `json:"is_active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		var listing models.ServiceListing
		if err := database.DB.First(&listing, id).Error; err != nil {
			respondError(c, apperrors.NotFound("listing"))
			return
		}
		if listing.VendorID != profile.ID {
			respondError(c, apperrors.Forbidden("listing"))
			return
		}

		listing.IsActive = *req.IsActive
		if err := database.DB.Model(&listing).Update("is_active", listing.IsActive).Error; err != nil {
			respondError(c, apperrors.Internal("failed to update listing", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"listing": listing},
		})
	})

	// Retire a listing. Soft delete keeps historical booking snapshots intact.
	router.DELETE("/listings/:id", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var listing models.ServiceListing
		if err := database.DB.First(&listing, id).Error; err != nil {
			respondError(c, apperrors.NotFound("listing"))
			return
		}
		if listing.VendorID != profile.ID {
			respondError(c, apperrors.Forbidden("listing"))
			return
		}

		if err := database.DB.Delete(&listing).Error; err != nil {
			respondError(c, apperrors.Internal("failed to delete listing", err))
			return
		}

		log.Printf("✅ Listing %d retired by vendor %d", listing.ID, profile.ID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Listing deleted",
		})
	})

	// Booking items assigned to this vendor
	router.GET("/booking-items", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}

		items, err := fulfillmentService.VendorItems(profile.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"items": items},
		})
	})

	// Fulfillment transitions on one item
	transitions := map[string]models.BookingItemStatus{
		"confirm":  models.ItemStatusConfirmed,
		"start":    models.ItemStatusInProgress,
		"complete": models.ItemStatusCompleted,
		"decline":  models.ItemStatusCancelled,
	}
	for action, target := range transitions {
		target := target
		router.POST("/booking-items/:id/"+action, func(c *gin.Context) {
			profile, err := vendorProfile(c)
			if err != nil {
				respondError(c, err)
				return
			}
			id, ok := paramUint(c, "id")
			if !ok {
				return
			}

			item, err := fulfillmentService.VendorTransition(profile.ID, id, target)
			if err != nil {
				respondError(c, err)
				return
			}

			log.Printf("✅ Booking item %d moved to %s by vendor %d", item.ID, item.Status, profile.ID)

			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    gin.H{"item": item},
			})
		})
	}

	// Vendor notes on one item
	router.PATCH("/booking-items/:id/notes", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var req struct {
			Notes string `json:"notes" binding:"max=2000"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		item, err := fulfillmentService.UpdateVendorNotes(profile.ID, id, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"item": item},
		})
	})
}
