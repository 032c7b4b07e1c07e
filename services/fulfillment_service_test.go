package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
	"event-marketplace-server/testutil"
)

func TestVendorForwardTransitions(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPaid)
	item := booking.Items[0]

	svc := NewFulfillmentService()

	started, err := svc.VendorTransition(item.VendorID, item.ID, models.ItemStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusInProgress, started.Status)

	var reloaded models.Booking
	require.NoError(t, database.DB.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusInProgress, reloaded.Status)

	completed, err := svc.VendorTransition(item.VendorID, item.ID, models.ItemStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusCompleted, completed.Status)

	require.NoError(t, database.DB.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingStatusCompleted, reloaded.Status)
}

func TestVendorCannotSkipStates(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending)
	item := booking.Items[0]

	_, err := NewFulfillmentService().VendorTransition(item.VendorID, item.ID, models.ItemStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestVendorDeclineOnlyFromPending(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending, models.ItemStatusPaid)

	svc := NewFulfillmentService()

	declined, err := svc.VendorTransition(booking.Items[0].VendorID, booking.Items[0].ID, models.ItemStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusCancelled, declined.Status)

	// A paid item is past the point where the vendor can walk away
	_, err = svc.VendorTransition(booking.Items[1].VendorID, booking.Items[1].ID, models.ItemStatusCancelled)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestVendorCannotTouchForeignItems(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending)
	stranger := createVendor(t, "stranger@test.local", "Other Vendor")

	_, err := NewFulfillmentService().VendorTransition(stranger.ID, booking.Items[0].ID, models.ItemStatusConfirmed)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestTerminalItemsRejectEverything(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusCompleted)
	item := booking.Items[0]

	svc := NewFulfillmentService()

	for _, target := range []models.BookingItemStatus{
		models.ItemStatusConfirmed,
		models.ItemStatusInProgress,
	} {
		_, err := svc.VendorTransition(item.VendorID, item.ID, target)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
	}

	_, err := svc.OrganizerCancelItem(organizer.ID, booking.ID, item.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestOrganizerCancelItemExits(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer,
		models.ItemStatusPending, models.ItemStatusConfirmed,
		models.ItemStatusPaid, models.ItemStatusInProgress)

	svc := NewFulfillmentService()

	// Unpaid work cancels
	item, err := svc.OrganizerCancelItem(organizer.ID, booking.ID, booking.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusCancelled, item.Status)

	item, err = svc.OrganizerCancelItem(organizer.ID, booking.ID, booking.Items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusCancelled, item.Status)

	// Paid or started work becomes a refund case
	item, err = svc.OrganizerCancelItem(organizer.ID, booking.ID, booking.Items[2].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusRefunded, item.Status)

	item, err = svc.OrganizerCancelItem(organizer.ID, booking.ID, booking.Items[3].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusRefunded, item.Status)
}

func TestOrganizerCancelBooking(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer,
		models.ItemStatusPending, models.ItemStatusPaid, models.ItemStatusCompleted)

	svc := NewFulfillmentService()

	cancelled, err := svc.OrganizerCancelBooking(organizer.ID, booking.ID)
	require.NoError(t, err)

	statuses := map[models.BookingItemStatus]int{}
	for _, item := range cancelled.Items {
		statuses[item.Status]++
	}
	assert.Equal(t, 1, statuses[models.ItemStatusCancelled])
	assert.Equal(t, 1, statuses[models.ItemStatusRefunded])
	// Completed work is untouched by a cancellation
	assert.Equal(t, 1, statuses[models.ItemStatusCompleted])
	assert.Equal(t, models.BookingStatusRefunded, cancelled.Status)

	// Second cancel has nothing left to do
	_, err = svc.OrganizerCancelBooking(organizer.ID, booking.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestOrganizerCancelBookingOwnership(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	other := createOrganizer(t, "other@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusPending)

	_, err := NewFulfillmentService().OrganizerCancelBooking(other.ID, booking.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestUpdateVendorNotes(t *testing.T) {
	testutil.SetupDB(t)

	organizer := createOrganizer(t, "org@test.local")
	booking := createBookingWithItems(t, organizer, models.ItemStatusConfirmed)
	item := booking.Items[0]

	svc := NewFulfillmentService()

	updated, err := svc.UpdateVendorNotes(item.VendorID, item.ID, "Arriving at 14:00 for setup")
	require.NoError(t, err)
	assert.Equal(t, "Arriving at 14:00 for setup", updated.VendorNotes)

	stranger := createVendor(t, "stranger@test.local", "Other Vendor")
	_, err = svc.UpdateVendorNotes(stranger.ID, item.ID, "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}
