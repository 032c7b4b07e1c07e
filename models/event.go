package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// EventStatus represents the lifecycle of an event brief
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusOpen      EventStatus = "open"
	EventStatusBooked    EventStatus = "booked"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is an organizer-authored request for proposals. Draft briefs are not
// visible to vendors; open briefs accept proposals; booked is terminal for
// acceptance purposes.
type Event struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	OrganizerID uint           `json:"organizer_id" gorm:"not null;index"`
	EventType   string         `json:"event_type" gorm:"type:varchar(100);not null"`
	EventDate   time.Time      `json:"event_date" gorm:"not null"`
	City        string         `json:"city" gorm:"type:varchar(100);not null"`
	GuestCount  *int           `json:"guest_count"`
	BudgetRange string         `json:"budget_range" gorm:"type:varchar(50)"`
	Vibe        string         `json:"vibe" gorm:"type:text"`
	Services    string         `json:"-" gorm:"type:text;column:services"` // comma-separated wishlist
	Status      EventStatus    `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	Proposals []Proposal `json:"proposals,omitempty" gorm:"foreignKey:EventID"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}

// ServiceList returns the services wishlist as a slice
func (e *Event) ServiceList() []string {
	if e.Services == "" {
		return nil
	}
	parts := strings.Split(e.Services, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SetServiceList stores the services wishlist from a slice
func (e *Event) SetServiceList(services []string) {
	e.Services = strings.Join(services, ",")
}

// EventCreate represents the request structure for creating an event brief
type EventCreate struct {
	EventType   string    `json:"event_type" binding:"required"`
	EventDate   time.Time `json:"event_date" binding:"required"`
	City        string    `json:"city" binding:"required"`
	GuestCount  *int      `json:"guest_count"`
	BudgetRange string    `json:"budget_range"`
	Vibe        string    `json:"vibe"`
	Services    []string  `json:"services"`
	Publish     bool      `json:"publish"` // skip draft and open immediately
}

// EventResponse represents the response structure for event brief data
type EventResponse struct {
	ID          uint        `json:"id"`
	OrganizerID uint        `json:"organizer_id"`
	EventType   string      `json:"event_type"`
	EventDate   time.Time   `json:"event_date"`
	City        string      `json:"city"`
	GuestCount  *int        `json:"guest_count"`
	BudgetRange string      `json:"budget_range"`
	Vibe        string      `json:"vibe"`
	Services    []string    `json:"services"`
	Status      EventStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Proposals   []Proposal  `json:"proposals,omitempty"`
}

// ToResponse converts an event to its response shape
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		EventType:   e.EventType,
		EventDate:   e.EventDate,
		City:        e.City,
		GuestCount:  e.GuestCount,
		BudgetRange: e.BudgetRange,
		Vibe:        e.Vibe,
		Services:    e.ServiceList(),
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		Proposals:   e.Proposals,
	}
}
