package models

import (
	"time"
)

// ProposalStatus represents the lifecycle of a vendor proposal.
// Accepted and rejected are both terminal.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// MinProposalMessageLen is the quality gate against empty spam offers
const MinProposalMessageLen = 20

// Proposal is a vendor's priced bid against an open event brief. The composite
// unique index closes the concurrent double-submit race on (event, vendor).
type Proposal struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventID   uint           `json:"event_id" gorm:"not null;uniqueIndex:idx_event_vendor"`
	VendorID  uint           `json:"vendor_id" gorm:"not null;uniqueIndex:idx_event_vendor"`
	Price     float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Message   string         `json:"message" gorm:"type:text"`
	Status    ProposalStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Vendor VendorProfile `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
}

// TableName specifies the table name for the Proposal model
func (Proposal) TableName() string {
	return "proposals"
}

// ProposalCreate represents the request structure for submitting a proposal
type ProposalCreate struct {
	Price   float64 `json:"price" binding:"required,gt=0"`
	Message string  `json:"message" binding:"required"`
}
