package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// RegisterCartRoutes registers the organizer cart routes
func RegisterCartRoutes(router *gin.RouterGroup) {
	cartService := services.NewCartService()

	// Get the cart with live prices
	router.GET("/cart", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		view, err := cartService.GetCart(userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"cart": view},
		})
	})

	// Add a listing to the cart
	router.POST("/cart/items", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req models.CartItemAdd
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		item, err := cartService.AddItem(userID, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    gin.H{"item": item},
		})
	})

	// Update a cart line
	router.PATCH("/cart/items/:id", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var req models.CartItemUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		item, err := cartService.UpdateItem(userID, id, req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"item": item},
		})
	})

	// Remove a cart line
	router.DELETE("/cart/items/:id", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		if err := cartService.RemoveItem(userID, id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Item removed from cart",
		})
	})
}
