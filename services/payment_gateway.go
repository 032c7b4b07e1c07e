package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/config"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// PaymentSession is a hosted checkout session opened for a booking total
type PaymentSession struct {
	ID          string
	RedirectURL string
}

// PaymentGateway is the boundary the checkout orchestrator talks to. The
// booking id travels as the session's client reference so retries stay keyed
// on the booking, never creating a second one.
type PaymentGateway interface {
	CreateSession(ctx context.Context, booking *models.Booking) (*PaymentSession, error)
}

// StripeGateway implements PaymentGateway over Stripe Checkout
type StripeGateway struct {
	client *client.API
}

// NewStripeGateway creates a Stripe-backed gateway from config. Returns nil
// (immediate confirmation path) when no secret key is configured.
func NewStripeGateway() (*StripeGateway, error) {
	key := config.AppConfig.Stripe.SecretKey
	if key == "" {
		return nil, nil
	}

	sc := client.New(key, nil)
	if sc == nil {
		return nil, ErrStripeClientInitFailed
	}

	log.Println("✅ Stripe client initialized")
	return &StripeGateway{client: sc}, nil
}

// CreateSession opens a hosted checkout session for the booking total
func (g *StripeGateway) CreateSession(ctx context.Context, booking *models.Booking) (*PaymentSession, error) {
	cfg := config.AppConfig.Stripe

	// Stripe works in the smallest currency unit
	amountInCents := int64(math.Round(booking.Total * 100))

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(booking.Reference),
		SuccessURL:        stripe.String(cfg.SuccessURL),
		CancelURL:         stripe.String(cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(cfg.Currency),
					UnitAmount: stripe.Int64(amountInCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Event booking %s", booking.Reference)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"booking_id":        fmt.Sprintf("%d", booking.ID),
			"booking_reference": booking.Reference,
		},
	}
	params.Context = ctx

	session, err := g.client.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe session creation failed: %w", err)
	}

	return &PaymentSession{ID: session.ID, RedirectURL: session.URL}, nil
}

// PaymentOutcome is the gateway callback verdict for a session
type PaymentOutcome string

const (
	OutcomeSucceeded PaymentOutcome = "succeeded"
	OutcomeFailed    PaymentOutcome = "failed"
	OutcomeExpired   PaymentOutcome = "expired"
)

// paymentOutcomeMapping is the single explicit table mapping a gateway
// outcome to what happens to the booking's items. A nil target means the
// booking is left pending so the session can be retried.
var paymentOutcomeMapping = map[PaymentOutcome]*models.BookingItemStatus{
	OutcomeSucceeded: statusPtr(models.ItemStatusPaid),
	OutcomeFailed:    nil,
	OutcomeExpired:   nil,
}

func statusPtr(s models.BookingItemStatus) *models.BookingItemStatus {
	return &s
}

// ApplyPaymentResult maps an asynchronous gateway callback onto the booking
// identified by its session ref. On success every pending or confirmed item
// moves to paid and the booking status rolls up; failures leave the booking
// pending for an idempotent retry.
func ApplyPaymentResult(sessionRef string, outcome PaymentOutcome) error {
	target, known := paymentOutcomeMapping[outcome]
	if !known {
		return apperrors.Validation(fmt.Sprintf("unknown payment outcome %q", outcome))
	}

	var booking models.Booking
	if err := database.DB.Where("payment_session_id = ?", sessionRef).First(&booking).Error; err != nil {
		return apperrors.NotFound("booking for payment session")
	}

	if target == nil {
		log.Printf("💳 Payment %s for booking %d, left pending for retry", outcome, booking.ID)
		return nil
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.BookingItem
		if err := tx.Where("booking_id = ?", booking.ID).Find(&items).Error; err != nil {
			return apperrors.Internal("failed to load booking items", err)
		}

		statuses := make([]models.BookingItemStatus, 0, len(items))
		for i := range items {
			if models.CanTransition(items[i].Status, *target) {
				items[i].Status = *target
				if err := tx.Model(&models.BookingItem{}).
					Where("id = ?", items[i].ID).
					Update("status", *target).Error; err != nil {
					return apperrors.Internal("failed to update booking item", err)
				}
			}
			statuses = append(statuses, items[i].Status)
		}

		rollUp := models.RollUpBookingStatus(statuses)
		if err := tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("status", rollUp).Error; err != nil {
			return apperrors.Internal("failed to update booking status", err)
		}

		log.Printf("💳 Payment %s for booking %d, status now %s", outcome, booking.ID, rollUp)
		return nil
	})
}
