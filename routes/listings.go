package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// RegisterListingRoutes registers the public catalog browse routes
func RegisterListingRoutes(router *gin.RouterGroup) {
	catalogService := services.NewCatalogService()

	// Search listings with filters
	router.GET("/listings", func(c *gin.Context) {
		filter := models.ListingFilter{
			Keyword:  c.Query("q"),
			Category: c.Query("category"),
			City:     c.Query("city"),
			Featured: c.Query("featured") == "true",
		}

		if filter.Category != "" && !models.IsValidListingCategory(filter.Category) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid category",
				"message": "Unknown listing category",
			})
			return
		}

		if raw := c.Query("price_min"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				filter.PriceMin = &v
			}
		}
		if raw := c.Query("price_max"); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				filter.PriceMax = &v
			}
		}
		filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
		filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

		listings, total, err := catalogService.Search(filter)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"listings":  listings,
				"total":     total,
				"page":      filter.Page,
				"page_size": filter.PageSize,
			},
		})
	})

	// Get a single listing
	router.GET("/listings/:id", func(c *gin.Context) {
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		listing, err := catalogService.FindListing(id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"listing": listing},
		})
	})

	// List available categories
	router.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"categories": models.GetListingCategories()},
		})
	})
}
