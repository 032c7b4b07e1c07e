package models

import (
	"time"

	"gorm.io/gorm"
)

// ListingCategory represents the kind of service a listing offers
type ListingCategory string

const (
	CategoryVenue       ListingCategory = "venue"
	CategoryCatering    ListingCategory = "catering"
	CategoryPhotography ListingCategory = "photography"
	CategoryMusic       ListingCategory = "music"
	CategoryDecoration  ListingCategory = "decoration"
	CategoryTransport   ListingCategory = "transport"
	CategoryStaffing    ListingCategory = "staffing"
	CategoryOther       ListingCategory = "other"
)

// GetListingCategories returns all available listing categories
func GetListingCategories() []ListingCategory {
	return []ListingCategory{
		CategoryVenue,
		CategoryCatering,
		CategoryPhotography,
		CategoryMusic,
		CategoryDecoration,
		CategoryTransport,
		CategoryStaffing,
		CategoryOther,
	}
}

// IsValidListingCategory checks whether the given value is a known category
func IsValidListingCategory(c string) bool {
	for _, cat := range GetListingCategories() {
		if string(cat) == c {
			return true
		}
	}
	return false
}

// PriceType describes how a listing's price is applied
type PriceType string

const (
	PriceTypeFixed     PriceType = "fixed"
	PriceTypePerPerson PriceType = "per_person"
	PriceTypePerHour   PriceType = "per_hour"
	PriceTypePerDay    PriceType = "per_day"
	PriceTypeQuote     PriceType = "quote"
)

// ServiceListing represents a vendor's purchasable catalog entry. Past bookings
// are protected against edits by the BookingItem snapshot, not by freezing the
// listing row.
type ServiceListing struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	VendorID    uint            `json:"vendor_id" gorm:"not null;index"`
	Vendor      VendorProfile   `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Category    ListingCategory `json:"category" gorm:"type:varchar(30);not null;index"`
	Title       string          `json:"title" gorm:"type:varchar(200);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       float64         `json:"price" gorm:"type:decimal(10,2);not null"`
	PriceMax    *float64        `json:"price_max" gorm:"type:decimal(10,2)"`
	PriceType   PriceType       `json:"price_type" gorm:"type:varchar(20);not null;default:'fixed'"`
	City        string          `json:"city" gorm:"type:varchar(100);not null;index"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(500)"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	IsFeatured  bool            `json:"is_featured" gorm:"default:false"`
	Rating      float64         `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int             `json:"review_count" gorm:"default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the ServiceListing model
func (ServiceListing) TableName() string {
	return "service_listings"
}

// ListingCreate represents the request structure for creating/updating a listing
type ListingCreate struct {
	Category    string   `json:"category" binding:"required"`
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	PriceMax    *float64 `json:"price_max"`
	PriceType   string   `json:"price_type" binding:"omitempty,oneof=fixed per_person per_hour per_day quote"`
	City        string   `json:"city" binding:"required"`
	ImageURL    string   `json:"image_url"`
}

// ListingFilter carries the catalog search parameters
type ListingFilter struct {
	Keyword  string
	Category string
	City     string
	PriceMin *float64
	PriceMax *float64
	Featured bool
	Page     int
	PageSize int
}
