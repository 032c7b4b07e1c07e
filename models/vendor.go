package models

import (
	"time"

	"gorm.io/gorm"
)

// VendorProfile represents a vendor's business profile. It owns the vendor's
// catalog listings and carries aggregate rating fields that are maintained
// elsewhere and read-only in this service.
type VendorProfile struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	UserID      uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	CompanyName string          `json:"company_name" gorm:"type:varchar(200);not null"`
	Category    ListingCategory `json:"category" gorm:"type:varchar(30);not null"`
	City        string          `json:"city" gorm:"type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Rating      float64         `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int             `json:"review_count" gorm:"default:0"`
	IsVerified  bool            `json:"is_verified" gorm:"default:false"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User     User             `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Listings []ServiceListing `json:"listings,omitempty" gorm:"foreignKey:VendorID"`
}

// TableName specifies the table name for the VendorProfile model
func (VendorProfile) TableName() string {
	return "vendor_profiles"
}

// VendorProfileCreate represents the request structure for creating a vendor profile
type VendorProfileCreate struct {
	CompanyName string `json:"company_name" binding:"required,min=2,max=200"`
	Category    string `json:"category" binding:"required"`
	City        string `json:"city" binding:"required"`
	Description string `json:"description"`
}
