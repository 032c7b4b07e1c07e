package routes

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/config"
	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// RegisterCheckoutRoutes registers the organizer checkout and payment-retry
// routes
func RegisterCheckoutRoutes(router *gin.RouterGroup, checkoutService *services.CheckoutService) {
	// Convert the cart into a booking
	router.POST("/checkout", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req models.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		result, err := checkoutService.Checkout(c.Request.Context(), userID, req)
		if err != nil {
			// The booking may already be durable when the gateway failed;
			// return it so the client can retry the session later.
			if result != nil && result.Booking != nil && apperrors.IsKind(err, apperrors.KindUpstreamFailure) {
				c.JSON(http.StatusBadGateway, gin.H{
					"success": false,
					"error":   string(apperrors.KindUpstreamFailure),
					"message": "Payment gateway unavailable, booking is pending",
					"data":    gin.H{"booking": result.Booking},
				})
				return
			}
			respondError(c, err)
			return
		}

		log.Printf("✅ Checkout complete: booking %d (%s) for user %d", result.Booking.ID, result.Booking.Reference, userID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data": gin.H{
				"booking":      result.Booking,
				"redirect_url": result.RedirectURL,
			},
		})
	})

	// Open a fresh payment session for a pending booking
	router.POST("/bookings/:id/retry-payment", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		result, err := checkoutService.RetryPaymentSession(c.Request.Context(), userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"booking":      result.Booking,
				"redirect_url": result.RedirectURL,
			},
		})
	})
}

// stripeEventOutcomes maps the gateway's event types onto payment outcomes.
// Anything not listed is acknowledged and ignored.
var stripeEventOutcomes = map[stripe.EventType]services.PaymentOutcome{
	stripe.EventTypeCheckoutSessionCompleted:          services.OutcomeSucceeded,
	stripe.EventTypeCheckoutSessionExpired:            services.OutcomeExpired,
	stripe.EventTypeCheckoutSessionAsyncPaymentFailed: services.OutcomeFailed,
}

// RegisterPaymentWebhook registers the gateway callback endpoint. It is
// unauthenticated; the payload signature is the authentication when a webhook
// secret is configured.
func RegisterPaymentWebhook(router *gin.RouterGroup) {
	router.POST("/payments/webhook", func(c *gin.Context) {
		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable payload"})
			return
		}

		var event stripe.Event
		if secret := config.AppConfig.Stripe.WebhookSecret; secret != "" {
			event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
			if err != nil {
				log.Printf("🚫 Webhook signature verification failed: %v", err)
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
				return
			}
		} else if gin.Mode() == gin.ReleaseMode {
			// The unsigned path is a local-development convenience only; in
			// production anyone could forge a session outcome through it.
			log.Printf("🚫 Webhook rejected: STRIPE_WEBHOOK_SECRET not configured")
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Webhook not configured"})
			return
		} else if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
			return
		}

		outcome, relevant := stripeEventOutcomes[event.Type]
		if !relevant {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Printf("❌ Webhook session parse failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session payload"})
			return
		}

		if err := services.ApplyPaymentResult(session.ID, outcome); err != nil {
			// Unknown session: acknowledge so the gateway stops retrying
			if apperrors.IsKind(err, apperrors.KindNotFound) {
				log.Printf("⚠️ Webhook for unknown session %s", session.ID)
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	})
}
