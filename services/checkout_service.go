package services

import (
	"context"
	"log"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/cache"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

// PlatformFeeRate is the fixed surcharge applied to every checkout. It is a
// constant of this subsystem, not configurable per listing or per vendor.
const PlatformFeeRate = 0.05

// RoundToCent rounds a money amount to two decimals, half away from zero
func RoundToCent(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// PlatformFee computes the fee on a subtotal
func PlatformFee(subtotal float64) float64 {
	return RoundToCent(subtotal * PlatformFeeRate)
}

// CheckoutResult is what the organizer gets back from a checkout
type CheckoutResult struct {
	Booking     *models.Booking `json:"booking"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

// CheckoutService converts a cart into a durable booking with snapshot items
// and opens a payment session for the total.
type CheckoutService struct {
	gateway PaymentGateway
}

// NewCheckoutService creates a checkout service backed by the given gateway.
// A nil gateway means the immediate-confirmation path: no payment session is
// opened and the booking id is returned directly.
func NewCheckoutService(gateway PaymentGateway) *CheckoutService {
	return &CheckoutService{gateway: gateway}
}

// Checkout re-prices the caller's cart, creates the booking and its snapshot
// items, and clears the cart, all in one transaction. Client-supplied prices
// are never trusted; every line is resolved against the live listing inside
// the transaction. The conditional delete of the charged lines is the guard
// against a double-submit producing two bookings from one cart.
func (s *CheckoutService) Checkout(ctx context.Context, organizerID uint, req models.CheckoutRequest) (*CheckoutResult, error) {
	if req.EventDate.IsZero() {
		return nil, apperrors.Validation("event_date is required")
	}

	var cart models.Cart
	if err := database.DB.Where("organizer_id = ?", organizerID).First(&cart).Error; err != nil {
		return nil, apperrors.InvalidState("cart is empty")
	}

	locked, err := cache.AcquireCheckoutLock(ctx, cart.ID)
	switch {
	case err != nil:
		// Lock backend down: proceed unlocked, the conditional cart clear
		// below still prevents a double booking. No release either, a lock
		// we never took may belong to a concurrent checkout.
		log.Printf("⚠️ Checkout lock unavailable for cart %d: %v", cart.ID, err)
	case !locked:
		return nil, apperrors.InvalidState("checkout already in progress for this cart")
	default:
		defer func() {
			if err := cache.ReleaseCheckoutLock(ctx, cart.ID); err != nil {
				log.Printf("⚠️ Failed to release checkout lock for cart %d: %v", cart.ID, err)
			}
		}()
	}

	var booking models.Booking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Listing.Vendor").
			Where("cart_id = ?", cart.ID).
			Find(&items).Error; err != nil {
			return apperrors.Internal("failed to load cart items", err)
		}

		// Resolve each line against the live listing; unresolvable lines are
		// skipped the same way the cart view hides them.
		type pricedLine struct {
			item    models.CartItem
			listing models.ServiceListing
		}
		var lines []pricedLine
		var chargedIDs []uint
		var subtotal float64
		for _, item := range items {
			if item.Listing.ID == 0 || !item.Listing.IsActive {
				continue
			}
			lines = append(lines, pricedLine{item: item, listing: item.Listing})
			chargedIDs = append(chargedIDs, item.ID)
			subtotal += item.Listing.Price * float64(item.Quantity)
		}

		if len(lines) == 0 {
			return apperrors.InvalidState("cart is empty")
		}

		subtotal = RoundToCent(subtotal)
		fee := PlatformFee(subtotal)

		booking = models.Booking{
			Reference:    uuid.NewString(),
			OrganizerID:  organizerID,
			EventDate:    req.EventDate,
			EventType:    req.EventType,
			EventCity:    req.EventCity,
			GuestCount:   req.GuestCount,
			Notes:        req.Notes,
			ContactEmail: req.ContactEmail,
			ContactPhone: req.ContactPhone,
			Subtotal:     subtotal,
			PlatformFee:  fee,
			Total:        RoundToCent(subtotal + fee),
			Status:       models.BookingStatusPending,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return apperrors.Internal("failed to create booking", err)
		}

		for _, line := range lines {
			snapshot := models.BookingItem{
				BookingID:   booking.ID,
				ListingID:   line.listing.ID,
				ServiceName: line.listing.Title,
				VendorName:  line.listing.Vendor.CompanyName,
				VendorID:    line.listing.VendorID,
				Category:    string(line.listing.Category),
				Quantity:    line.item.Quantity,
				UnitPrice:   line.listing.Price,
				Total:       RoundToCent(line.listing.Price * float64(line.item.Quantity)),
				Status:      models.ItemStatusPending,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return apperrors.Internal("failed to create booking item", err)
			}
		}

		// Clear exactly the lines that were charged. Fewer rows means a
		// concurrent checkout got here first; roll everything back.
		result := tx.Where("cart_id = ? AND id IN ?", cart.ID, chargedIDs).Delete(&models.CartItem{})
		if result.Error != nil {
			return apperrors.Internal("failed to clear cart", result.Error)
		}
		if result.RowsAffected != int64(len(chargedIDs)) {
			return apperrors.InvalidState("cart changed during checkout, please retry")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.Preload("Items").First(&booking, booking.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload booking", err)
	}

	// Booking is durable; a gateway failure leaves it pending so the session
	// can be retried with the same booking rather than re-created.
	if s.gateway == nil {
		return &CheckoutResult{Booking: &booking}, nil
	}

	session, err := s.gateway.CreateSession(ctx, &booking)
	if err != nil {
		log.Printf("⚠️ Payment session creation failed for booking %d: %v", booking.ID, err)
		return &CheckoutResult{Booking: &booking}, apperrors.Upstream("payment gateway unavailable, booking is pending", err)
	}

	booking.PaymentSessionID = session.ID
	if err := database.DB.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("payment_session_id", session.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to store payment session", err)
	}

	return &CheckoutResult{Booking: &booking, RedirectURL: session.RedirectURL}, nil
}

// RetryPaymentSession opens a fresh gateway session for a pending booking.
// Idempotent on the booking: no new booking is ever created here.
func (s *CheckoutService) RetryPaymentSession(ctx context.Context, organizerID, bookingID uint) (*CheckoutResult, error) {
	var booking models.Booking
	if err := database.DB.Preload("Items").First(&booking, bookingID).Error; err != nil {
		return nil, apperrors.NotFound("booking")
	}
	if booking.OrganizerID != organizerID {
		return nil, apperrors.Forbidden("booking")
	}
	if booking.Status != models.BookingStatusPending {
		return nil, apperrors.InvalidState("booking is not awaiting payment")
	}
	if s.gateway == nil {
		return nil, apperrors.InvalidState("no payment gateway configured")
	}

	session, err := s.gateway.CreateSession(ctx, &booking)
	if err != nil {
		return nil, apperrors.Upstream("payment gateway unavailable", err)
	}

	if err := database.DB.Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Update("payment_session_id", session.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to store payment session", err)
	}
	booking.PaymentSessionID = session.ID

	return &CheckoutResult{Booking: &booking, RedirectURL: session.RedirectURL}, nil
}
