package models

import (
	"time"
)

// Cart holds an organizer's pre-purchase selections. One cart per organizer,
// created lazily on the first add. The cart stores no totals; prices are always
// resolved from the live listing at read time.
type Cart struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	OrganizerID uint      `json:"organizer_id" gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one line of a cart. At most one line per listing; adding the same
// listing again increments the quantity.
type CartItem struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	CartID       uint       `json:"cart_id" gorm:"not null;index;uniqueIndex:idx_cart_listing"`
	ListingID    uint       `json:"listing_id" gorm:"not null;uniqueIndex:idx_cart_listing"`
	Quantity     int        `json:"quantity" gorm:"not null;default:1;check:quantity >= 1"`
	SelectedDate *time.Time `json:"selected_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Listing ServiceListing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}

// TableName specifies the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// CartItemAdd represents the request structure for adding a listing to the cart
type CartItemAdd struct {
	ListingID    uint       `json:"listing_id" binding:"required"`
	Quantity     int        `json:"quantity" binding:"omitempty,min=1"`
	SelectedDate *time.Time `json:"selected_date"`
}

// CartItemUpdate represents the request structure for changing a cart line
type CartItemUpdate struct {
	Quantity     int        `json:"quantity" binding:"required,min=1"`
	SelectedDate *time.Time `json:"selected_date"`
}

// CartLineView is a cart line joined with live listing data
type CartLineView struct {
	ItemID       uint       `json:"item_id"`
	ListingID    uint       `json:"listing_id"`
	Title        string     `json:"title"`
	VendorName   string     `json:"vendor_name"`
	Category     string     `json:"category"`
	ImageURL     string     `json:"image_url"`
	UnitPrice    float64    `json:"unit_price"`
	Quantity     int        `json:"quantity"`
	LineTotal    float64    `json:"line_total"`
	SelectedDate *time.Time `json:"selected_date"`
}

// CartView is the organizer-facing cart read model with a derived subtotal
type CartView struct {
	CartID   uint           `json:"cart_id"`
	Items    []CartLineView `json:"items"`
	Subtotal float64        `json:"subtotal"`
}
