package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleOrganizer UserRole = "organizer"
	RoleVendor    UserRole = "vendor"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PhoneNumber  string    `json:"phone_number" gorm:"size:20"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'organizer';check:role IN ('organizer','vendor')"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleOrganizer
	}
	return nil
}

// IsVendor checks if the user is a vendor
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// IsOrganizer checks if the user is an organizer
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}
