package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

func createOrganizer(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		FullName:     "Test Organizer",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleOrganizer,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(user).Error)
	return user
}

func createVendor(t *testing.T, email, company string) *models.VendorProfile {
	t.Helper()
	user := &models.User{
		FullName:     company,
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleVendor,
		IsActive:     true,
	}
	require.NoError(t, database.DB.Create(user).Error)

	profile := &models.VendorProfile{
		UserID:      user.ID,
		CompanyName: company,
		Category:    models.CategoryCatering,
		City:        "Paris",
	}
	require.NoError(t, database.DB.Create(profile).Error)
	return profile
}

func createListing(t *testing.T, vendor *models.VendorProfile, title string, price float64) *models.ServiceListing {
	t.Helper()
	listing := &models.ServiceListing{
		VendorID:  vendor.ID,
		Category:  vendor.Category,
		Title:     title,
		Price:     price,
		PriceType: models.PriceTypeFixed,
		City:      vendor.City,
		IsActive:  true,
	}
	require.NoError(t, database.DB.Create(listing).Error)
	return listing
}

func addToCart(t *testing.T, organizer *models.User, listing *models.ServiceListing, quantity int) *models.CartItem {
	t.Helper()
	item, err := NewCartService().AddItem(organizer.ID, models.CartItemAdd{
		ListingID: listing.ID,
		Quantity:  quantity,
	})
	require.NoError(t, err)
	return item
}

func createOpenBrief(t *testing.T, organizer *models.User) *models.Event {
	t.Helper()
	event, err := NewProposalService().CreateBrief(organizer.ID, models.EventCreate{
		EventType: "wedding",
		EventDate: time.Now().Add(30 * 24 * time.Hour),
		City:      "Paris",
		Publish:   true,
	})
	require.NoError(t, err)
	return event
}

func createBookingWithItems(t *testing.T, organizer *models.User, statuses ...models.BookingItemStatus) *models.Booking {
	t.Helper()
	vendor := createVendor(t, uuid.NewString()+"@test.local", "Fixture Vendor")

	booking := &models.Booking{
		Reference:   uuid.NewString(),
		OrganizerID: organizer.ID,
		EventDate:   time.Now().Add(14 * 24 * time.Hour),
		Subtotal:    100,
		PlatformFee: 5,
		Total:       105,
		Status:      models.RollUpBookingStatus(statuses),
	}
	require.NoError(t, database.DB.Create(booking).Error)

	for _, status := range statuses {
		listing := createListing(t, vendor, uuid.NewString(), 100)
		item := &models.BookingItem{
			BookingID:   booking.ID,
			ListingID:   listing.ID,
			ServiceName: listing.Title,
			VendorName:  vendor.CompanyName,
			VendorID:    vendor.ID,
			Category:    string(listing.Category),
			Quantity:    1,
			UnitPrice:   100,
			Total:       100,
			Status:      status,
		}
		require.NoError(t, database.DB.Create(item).Error)
	}

	require.NoError(t, database.DB.Preload("Items").First(booking, booking.ID).Error)
	return booking
}
