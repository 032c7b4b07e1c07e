package models

import (
	"time"
)

// BookingStatus is the organizer-facing roll-up of a booking's item statuses.
// It is never written independently; RollUpBookingStatus recomputes it on every
// item transition.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusPaid       BookingStatus = "paid"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusRefunded   BookingStatus = "refunded"
)

// BookingItemStatus is the per-vendor-item fulfillment state
type BookingItemStatus string

const (
	ItemStatusPending    BookingItemStatus = "pending"
	ItemStatusConfirmed  BookingItemStatus = "confirmed"
	ItemStatusPaid       BookingItemStatus = "paid"
	ItemStatusInProgress BookingItemStatus = "in_progress"
	ItemStatusCompleted  BookingItemStatus = "completed"
	ItemStatusCancelled  BookingItemStatus = "cancelled"
	ItemStatusRefunded   BookingItemStatus = "refunded"
)

// IsTerminal reports whether no further transitions are permitted
func (s BookingItemStatus) IsTerminal() bool {
	return s == ItemStatusCompleted || s == ItemStatusCancelled || s == ItemStatusRefunded
}

// itemTransitions is the full set of allowed forward transitions. Cancellation
// and refund side-exits are handled separately because they are reachable from
// any non-terminal state.
var itemTransitions = map[BookingItemStatus][]BookingItemStatus{
	ItemStatusPending:    {ItemStatusConfirmed, ItemStatusPaid},
	ItemStatusConfirmed:  {ItemStatusPaid, ItemStatusInProgress},
	ItemStatusPaid:       {ItemStatusInProgress},
	ItemStatusInProgress: {ItemStatusCompleted},
}

// CanTransition reports whether from → to is an allowed booking item transition
func CanTransition(from, to BookingItemStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == ItemStatusCancelled || to == ItemStatusRefunded {
		return true
	}
	for _, next := range itemTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RollUpBookingStatus derives the booking status from its items' statuses.
// Order of precedence: any in-progress work dominates; a fully terminal set
// collapses to cancelled, refunded or completed; otherwise the non-terminal
// items decide between paid, confirmed and pending.
func RollUpBookingStatus(statuses []BookingItemStatus) BookingStatus {
	if len(statuses) == 0 {
		return BookingStatusPending
	}

	allTerminal := true
	allCancelled := true
	anyRefunded := false
	for _, s := range statuses {
		if s == ItemStatusInProgress {
			return BookingStatusInProgress
		}
		if !s.IsTerminal() {
			allTerminal = false
		}
		if s != ItemStatusCancelled {
			allCancelled = false
		}
		if s == ItemStatusRefunded {
			anyRefunded = true
		}
	}

	if allTerminal {
		if allCancelled {
			return BookingStatusCancelled
		}
		if anyRefunded {
			return BookingStatusRefunded
		}
		return BookingStatusCompleted
	}

	allPaid := true
	allConfirmed := true
	for _, s := range statuses {
		if s.IsTerminal() {
			continue
		}
		if s != ItemStatusPaid {
			allPaid = false
		}
		if s != ItemStatusPaid && s != ItemStatusConfirmed {
			allConfirmed = false
		}
	}
	if allPaid {
		return BookingStatusPaid
	}
	if allConfirmed {
		return BookingStatusConfirmed
	}
	return BookingStatusPending
}

// Booking is the durable order created at checkout. Its money fields are fixed
// at creation and never re-derived from listing prices.
type Booking struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	Reference        string        `json:"reference" gorm:"size:36;uniqueIndex;not null"`
	OrganizerID      uint          `json:"organizer_id" gorm:"not null;index"`
	EventDate        time.Time     `json:"event_date" gorm:"not null"`
	EventType        string        `json:"event_type" gorm:"type:varchar(100)"`
	EventCity        string        `json:"event_city" gorm:"type:varchar(100)"`
	GuestCount       *int          `json:"guest_count"`
	Notes            string        `json:"notes" gorm:"type:text"`
	ContactEmail     string        `json:"contact_email" gorm:"type:varchar(255)"`
	ContactPhone     string        `json:"contact_phone" gorm:"type:varchar(20)"`
	Subtotal         float64       `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	PlatformFee      float64       `json:"platform_fee" gorm:"type:decimal(10,2);not null"`
	Total            float64       `json:"total" gorm:"type:decimal(10,2);not null"`
	Status           BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentSessionID string        `json:"payment_session_id" gorm:"type:varchar(255);index"`
	CreatedAt        time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Items []BookingItem `json:"items,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// BookingItem snapshots one cart line at the moment of purchase. The copied
// name/vendor/price fields are the only protection against later catalog edits
// corrupting historical orders.
type BookingItem struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	BookingID   uint              `json:"booking_id" gorm:"not null;index"`
	ListingID   uint              `json:"listing_id" gorm:"not null"`
	ServiceName string            `json:"service_name" gorm:"type:varchar(200);not null"`
	VendorName  string            `json:"vendor_name" gorm:"type:varchar(200);not null"`
	VendorID    uint              `json:"vendor_id" gorm:"not null;index"`
	Category    string            `json:"category" gorm:"type:varchar(30);not null"`
	Quantity    int               `json:"quantity" gorm:"not null"`
	UnitPrice   float64           `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Total       float64           `json:"total" gorm:"type:decimal(10,2);not null"`
	Status      BookingItemStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	VendorNotes string            `json:"vendor_notes" gorm:"type:text"`
	CreatedAt   time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the BookingItem model
func (BookingItem) TableName() string {
	return "booking_items"
}

// CheckoutRequest represents the request structure for converting a cart into a booking
type CheckoutRequest struct {
	EventDate    time.Time `json:"event_date" binding:"required"`
	EventType    string    `json:"event_type"`
	EventCity    string    `json:"event_city"`
	GuestCount   *int      `json:"guest_count"`
	Notes        string    `json:"notes"`
	ContactEmail string    `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string    `json:"contact_phone"`
}
