package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/services"
)

// RegisterBookingRoutes registers the organizer-side booking routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	fulfillmentService := services.NewFulfillmentService()

	// List own bookings
	router.GET("/bookings", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		bookings, err := fulfillmentService.OrganizerBookings(userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"bookings": bookings},
		})
	})

	// Get one booking with items
	router.GET("/bookings/:id", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		booking, err := fulfillmentService.OrganizerBooking(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"booking": booking},
		})
	})

	// Cancel the whole booking
	router.POST("/bookings/:id/cancel", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		booking, err := fulfillmentService.OrganizerCancelBooking(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		log.Printf("✅ Booking %d cancelled by user %d, status %s", booking.ID, userID, booking.Status)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"booking": booking},
		})
	})

	// Cancel a single item of the booking
	router.POST("/bookings/:id/items/:itemId/cancel", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		bookingID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		itemID, ok := paramUint(c, "itemId")
		if !ok {
			return
		}

		item, err := fulfillmentService.OrganizerCancelItem(userID, bookingID, itemID)
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
