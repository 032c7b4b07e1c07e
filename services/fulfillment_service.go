package services

import (
	"fmt"

	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

// FulfillmentService runs the per-item lifecycle after checkout. Vendors drive
// the forward transitions on their own items; organizers drive the
// cancellation-class side exits. Every transition recomputes the booking's
// roll-up status inside the same transaction.
type FulfillmentService struct{}

// NewFulfillmentService creates a new fulfillment service
func NewFulfillmentService() *FulfillmentService {
	return &FulfillmentService{}
}

// vendorTargets are the transitions a vendor may request on an item it owns
var vendorTargets = map[models.BookingItemStatus]bool{
	models.ItemStatusConfirmed:  true,
	models.ItemStatusInProgress: true,
	models.ItemStatusCompleted:  true,
	models.ItemStatusCancelled:  true, // decline
}

// VendorTransition moves one booking item owned by the vendor to the target
// status. Illegal transitions, including any action on a terminal item, fail
// with InvalidState.
func (s *FulfillmentService) VendorTransition(vendorID, itemID uint, target models.BookingItemStatus) (*models.BookingItem, error) {
	if !vendorTargets[target] {
		return nil, apperrors.Validation(fmt.Sprintf("vendors cannot set item status %q", target))
	}
	// A vendor decline is only legal before any confirmation or payment
	if target == models.ItemStatusCancelled {
		return s.transition(itemID, target, func(item *models.BookingItem) error {
			if item.VendorID != vendorID {
				return apperrors.Forbidden("booking item")
			}
			if item.Status != models.ItemStatusPending {
				return apperrors.InvalidState(fmt.Sprintf("cannot decline item in status %q", item.Status))
			}
			return nil
		})
	}
	return s.transition(itemID, target, func(item *models.BookingItem) error {
		if item.VendorID != vendorID {
			return apperrors.Forbidden("booking item")
		}
		return nil
	})
}

// OrganizerCancelItem side-exits one item of the caller's booking. Unpaid
// items cancel; paid or started items become refund cases.
func (s *FulfillmentService) OrganizerCancelItem(organizerID, bookingID, itemID uint) (*models.BookingItem, error) {
	booking, err := s.ownedBooking(organizerID, bookingID)
	if err != nil {
		return nil, err
	}
	return s.transition(itemID, "", func(item *models.BookingItem) error {
		if item.BookingID != booking.ID {
			return apperrors.NotFound("booking item")
		}
		return nil
	})
}

// OrganizerCancelBooking side-exits every non-terminal item of the booking
func (s *FulfillmentService) OrganizerCancelBooking(organizerID, bookingID uint) (*models.Booking, error) {
	booking, err := s.ownedBooking(organizerID, bookingID)
	if err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.BookingItem
		if err := tx.Where("booking_id = ?", booking.ID).Find(&items).Error; err != nil {
			return apperrors.Internal("failed to load booking items", err)
		}

		anyChanged := false
		statuses := make([]models.BookingItemStatus, 0, len(items))
		for i := range items {
			if !items[i].Status.IsTerminal() {
				items[i].Status = cancellationExit(items[i].Status)
				if err := tx.Model(&models.BookingItem{}).
					Where("id = ?", items[i].ID).
					Update("status", items[i].Status).Error; err != nil {
					return apperrors.Internal("failed to update booking item", err)
				}
				anyChanged = true
			}
			statuses = append(statuses, items[i].Status)
		}
		if !anyChanged {
			return apperrors.InvalidState("booking has no items left to cancel")
		}

		return tx.Model(&models.Booking{}).
			Where("id = ?", booking.ID).
			Update("status", models.RollUpBookingStatus(statuses)).Error
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.Preload("Items").First(booking, booking.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload booking", err)
	}
	return booking, nil
}

// UpdateVendorNotes sets the vendor-authored notes on an item the vendor owns
func (s *FulfillmentService) UpdateVendorNotes(vendorID, itemID uint, notes string) (*models.BookingItem, error) {
	var item models.BookingItem
	if err := database.DB.First(&item, itemID).Error; err != nil {
		return nil, apperrors.NotFound("booking item")
	}
	if item.VendorID != vendorID {
		return nil, apperrors.Forbidden("booking item")
	}
	item.VendorNotes = notes
	if err := database.DB.Model(&models.BookingItem{}).
		Where("id = ?", item.ID).
		Update("vendor_notes", notes).Error; err != nil {
		return nil, apperrors.Internal("failed to update vendor notes", err)
	}
	return &item, nil
}

// cancellationExit picks the side exit for an organizer cancellation: unpaid
// work cancels, paid or started work is refunded
func cancellationExit(from models.BookingItemStatus) models.BookingItemStatus {
	if from == models.ItemStatusPaid || from == models.ItemStatusInProgress {
		return models.ItemStatusRefunded
	}
	return models.ItemStatusCancelled
}

// transition applies one item transition inside a transaction: guard checks,
// transition table check, write, then booking roll-up. An empty target means
// the cancellation exit is derived from the current status.
func (s *FulfillmentService) transition(itemID uint, target models.BookingItemStatus, guard func(*models.BookingItem) error) (*models.BookingItem, error) {
	var item models.BookingItem
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			return apperrors.NotFound("booking item")
		}
		if err := guard(&item); err != nil {
			return err
		}

		to := target
		if to == "" {
			to = cancellationExit(item.Status)
		}

		if !models.CanTransition(item.Status, to) {
			return apperrors.InvalidState(fmt.Sprintf("transition %s → %s is not allowed", item.Status, to))
		}

		item.Status = to
		if err := tx.Model(&models.BookingItem{}).
			Where("id = ?", item.ID).
			Update("status", to).Error; err != nil {
			return apperrors.Internal("failed to update booking item", err)
		}

		var siblings []models.BookingItem
		if err := tx.Where("booking_id = ?", item.BookingID).Find(&siblings).Error; err != nil {
			return apperrors.Internal("failed to load booking items", err)
		}
		statuses := make([]models.BookingItemStatus, 0, len(siblings))
		for _, sib := range siblings {
			statuses = append(statuses, sib.Status)
		}

		return tx.Model(&models.Booking{}).
			Where("id = ?", item.BookingID).
			Update("status", models.RollUpBookingStatus(statuses)).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ownedBooking loads a booking and checks ownership without leaking existence
func (s *FulfillmentService) ownedBooking(organizerID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		return nil, apperrors.NotFound("booking")
	}
	if booking.OrganizerID != organizerID {
		return nil, apperrors.Forbidden("booking")
	}
	return &booking, nil
}

// OrganizerBookings returns the caller's bookings with items, newest first
func (s *FulfillmentService) OrganizerBookings(organizerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := database.DB.Preload("Items").
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, apperrors.Internal("failed to load bookings", err)
	}
	return bookings, nil
}

// OrganizerBooking returns one booking owned by the caller
func (s *FulfillmentService) OrganizerBooking(organizerID, bookingID uint) (*models.Booking, error) {
	booking, err := s.ownedBooking(organizerID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := database.DB.Preload("Items").First(booking, booking.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload booking", err)
	}
	return booking, nil
}

// VendorItems returns the booking items assigned to a vendor, newest first
func (s *FulfillmentService) VendorItems(vendorID uint) ([]models.BookingItem, error) {
	var items []models.BookingItem
	if err := database.DB.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, apperrors.Internal("failed to load booking items", err)
	}
	return items, nil
}
