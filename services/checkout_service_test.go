package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/cache"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
	"event-marketplace-server/testutil"
)

func checkoutRequest() models.CheckoutRequest {
	return models.CheckoutRequest{
		EventDate: time.Now().Add(30 * 24 * time.Hour),
		EventType: "wedding",
		EventCity: "Paris",
	}
}

func TestCheckoutFeeMath(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	// 200 x 1 + 50 x 3 = 350
	listingA := createListing(t, vendor, "Seated dinner", 200)
	listingB := createListing(t, vendor, "Cocktail buffet", 50)
	addToCart(t, organizer, listingA, 1)
	addToCart(t, organizer, listingB, 3)

	result, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.NoError(t, err)

	booking := result.Booking
	assert.Equal(t, 350.0, booking.Subtotal)
	assert.Equal(t, 17.50, booking.PlatformFee)
	assert.Equal(t, 367.50, booking.Total)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.NotEmpty(t, booking.Reference)
	assert.Len(t, booking.Items, 2)
}

func TestCheckoutRoundsFeeToCent(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Lens & Light")
	listing := createListing(t, vendor, "Photo booth", 123.45)
	addToCart(t, organizer, listing, 1)

	result, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.NoError(t, err)

	// 123.45 * 0.05 = 6.1725, rounds to 6.17
	assert.Equal(t, 6.17, result.Booking.PlatformFee)
	assert.Equal(t, 129.62, result.Booking.Total)
}

func TestCheckoutEmptyCart(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")

	_, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestCheckoutRequiresEventDate(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")

	_, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, models.CheckoutRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidationFailed))
}

func TestCheckoutClearsCart(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	listing := createListing(t, vendor, "Seated dinner", 85)
	addToCart(t, organizer, listing, 2)

	_, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.NoError(t, err)

	view, err := NewCartService().GetCart(organizer.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 0.0, view.Subtotal)
}

func TestCheckoutSkipsInactiveListings(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	active := createListing(t, vendor, "Seated dinner", 100)
	inactive := createListing(t, vendor, "Old menu", 50)
	addToCart(t, organizer, active, 1)
	addToCart(t, organizer, inactive, 1)

	require.NoError(t, database.DB.Model(inactive).Update("is_active", false).Error)

	result, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.Booking.Subtotal)
	assert.Len(t, result.Booking.Items, 1)
	assert.Equal(t, active.ID, result.Booking.Items[0].ListingID)
}

func TestCheckoutSnapshotSurvivesPriceChange(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	listing := createListing(t, vendor, "Seated dinner", 85)
	addToCart(t, organizer, listing, 2)

	result, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.NoError(t, err)

	// Vendor reprices after purchase; the snapshot must not move
	require.NoError(t, database.DB.Model(listing).Update("price", 999).Error)

	var item models.BookingItem
	require.NoError(t, database.DB.First(&item, result.Booking.Items[0].ID).Error)
	assert.Equal(t, 85.0, item.UnitPrice)
	assert.Equal(t, 170.0, item.Total)
	assert.Equal(t, "Seated dinner", item.ServiceName)
	assert.Equal(t, "Maison Gourmet", item.VendorName)
}

func TestCheckoutDetectsConcurrentCartMutation(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	listingA := createListing(t, vendor, "Seated dinner", 100)
	listingB := createListing(t, vendor, "Cocktail buffet", 50)
	itemA := addToCart(t, organizer, listingA, 1)
	addToCart(t, organizer, listingB, 1)

	// Simulate a concurrent checkout winning the race: one charged line
	// disappears between snapshot creation and the cart clear, so the clear
	// affects fewer rows than were charged.
	stolen := false
	err := database.DB.Callback().Delete().Before("gorm:delete").
		Register("checkout_test:steal_cart_line", func(tx *gorm.DB) {
			if stolen || tx.Statement.Table != "cart_items" {
				return
			}
			stolen = true
			tx.Session(&gorm.Session{NewDB: true}).
				Exec("DELETE FROM cart_items WHERE id = ?", itemA.ID)
		})
	require.NoError(t, err)
	t.Cleanup(func() {
		database.DB.Callback().Delete().Remove("checkout_test:steal_cart_line")
	})

	_, err = NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	assert.True(t, stolen)

	// The whole conversion rolled back; nothing durable was created
	var bookings, items int64
	require.NoError(t, database.DB.Model(&models.Booking{}).Count(&bookings).Error)
	require.NoError(t, database.DB.Model(&models.BookingItem{}).Count(&items).Error)
	assert.Zero(t, bookings)
	assert.Zero(t, items)
}

func TestCheckoutProceedsWhenLockBackendDown(t *testing.T) {
	testutil.SetupDB(t)

	// Unreachable redis: every lock call errors immediately. Checkout must
	// fall back to the transactional guard instead of failing the request.
	cache.Client = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() {
		cache.Client.Close()
		cache.Client = nil
	})

	organizer := createOrganizer(t, "org@test.local")
	vendor := createVendor(t, "vendor@test.local", "Maison Gourmet")
	listing := createListing(t, vendor, "Seated dinner", 85)
	addToCart(t, organizer, listing, 2)

	result, err := NewCheckoutService(nil).Checkout(context.Background(), organizer.ID, checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, result.Booking.Status)
	assert.Len(t, result.Booking.Items, 1)
}

func TestRetryPaymentSessionGuards(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	other := createOrganizer(t, "other@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending)

	svc := NewCheckoutService(nil)

	// Foreign booking is indistinguishable from a missing one
	_, err := svc.RetryPaymentSession(context.Background(), other.ID, booking.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	// No gateway configured
	_, err = svc.RetryPaymentSession(context.Background(), organizer.ID, booking.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	// Non-pending bookings are not retryable
	paid := createBookingWithItems(t, organizer, models.ItemStatusPaid)
	_, err = svc.RetryPaymentSession(context.Background(), organizer.ID, paid.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestApplyPaymentResultSuccess(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending, models.ItemStatusConfirmed)
	require.NoError(t, database.DB.Model(booking).Update("payment_session_id", "cs_test_123").Error)

	require.NoError(t, ApplyPaymentResult("cs_test_123", OutcomeSucceeded))

	var reloaded models.Booking
	require.NoError(t, database.DB.Preload("Items").First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPaid, reloaded.Status)
	for _, item := range reloaded.Items {
		assert.Equal(t, models.ItemStatusPaid, item.Status)
	}
}

func TestApplyPaymentResultFailureLeavesPending(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending)
	require.NoError(t, database.DB.Model(booking).Update("payment_session_id", "cs_test_456").Error)

	require.NoError(t, ApplyPaymentResult("cs_test_456", OutcomeFailed))
	require.NoError(t, ApplyPaymentResult("cs_test_456", OutcomeExpired))

	var reloaded models.Booking
	require.NoError(t, database.DB.Preload("Items").First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPending, reloaded.Status)
	assert.Equal(t, models.ItemStatusPending, reloaded.Items[0].Status)
}

func TestApplyPaymentResultSkipsCancelledItems(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending, models.ItemStatusCancelled)
	require.NoError(t, database.DB.Model(booking).Update("payment_session_id", "cs_test_789").Error)

	require.NoError(t, ApplyPaymentResult("cs_test_789", OutcomeSucceeded))

	var reloaded models.Booking
	require.NoError(t, database.DB.Preload("Items").First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusPaid, reloaded.Status)

	statuses := map[models.BookingItemStatus]int{}
	for _, item := range reloaded.Items {
		statuses[item.Status]++
	}
	assert.Equal(t, 1, statuses[models.ItemStatusPaid])
	assert.Equal(t, 1, statuses[models.ItemStatusCancelled])
}

func TestApplyPaymentResultUnknownSession(t *testing.T) {
	testutil.SetupDB(t)

	err := ApplyPaymentResult("cs_missing", OutcomeSucceeded)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, 17.50, PlatformFee(350))
	assert.Equal(t, 5.00, PlatformFee(100))
	assert.Equal(t, 0.05, PlatformFee(1))
	assert.Equal(t, 6.17, PlatformFee(123.45))
}
