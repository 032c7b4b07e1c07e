package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"event-marketplace-server/apperrors"
	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

// ProposalService runs the event brief lifecycle and the vendor proposal
// lifecycle. Acceptance is exclusive: the event's move out of open is the
// serialization point, so concurrent accepts cannot both win.
type ProposalService struct{}

// NewProposalService creates a new proposal service
func NewProposalService() *ProposalService {
	return &ProposalService{}
}

// CreateBrief creates an event brief for the organizer, optionally publishing
// it immediately
func (s *ProposalService) CreateBrief(organizerID uint, req models.EventCreate) (*models.Event, error) {
	if req.EventDate.Before(time.Now()) {
		return nil, apperrors.Validation("event_date must be in the future")
	}

	event := models.Event{
		OrganizerID: organizerID,
		EventType:   req.EventType,
		EventDate:   req.EventDate,
		City:        req.City,
		GuestCount:  req.GuestCount,
		BudgetRange: req.BudgetRange,
		Vibe:        req.Vibe,
		Status:      models.EventStatusDraft,
	}
	event.SetServiceList(req.Services)
	if req.Publish {
		event.Status = models.EventStatusOpen
	}

	if err := database.DB.Create(&event).Error; err != nil {
		return nil, apperrors.Internal("failed to create event brief", err)
	}
	return &event, nil
}

// PublishBrief moves a draft brief to open, making it visible to vendors
func (s *ProposalService) PublishBrief(organizerID, eventID uint) (*models.Event, error) {
	event, err := s.ownedEvent(organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventStatusDraft {
		return nil, apperrors.InvalidState(fmt.Sprintf("cannot publish event in status %q", event.Status))
	}

	event.Status = models.EventStatusOpen
	if err := database.DB.Model(&models.Event{}).
		Where("id = ?", event.ID).
		Update("status", models.EventStatusOpen).Error; err != nil {
		return nil, apperrors.Internal("failed to publish event brief", err)
	}
	return event, nil
}

// CancelBrief cancels an open brief. Pending proposals on it are rejected so
// vendors are not left waiting on a dead brief.
func (s *ProposalService) CancelBrief(organizerID, eventID uint) (*models.Event, error) {
	event, err := s.ownedEvent(organizerID, eventID)
	if err != nil {
		return nil, err
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Event{}).
			Where("id = ? AND status IN ?", event.ID, []models.EventStatus{models.EventStatusDraft, models.EventStatusOpen}).
			Update("status", models.EventStatusCancelled)
		if result.Error != nil {
			return apperrors.Internal("failed to cancel event brief", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidState(fmt.Sprintf("cannot cancel event in status %q", event.Status))
		}

		if err := tx.Model(&models.Proposal{}).
			Where("event_id = ? AND status = ?", event.ID, models.ProposalStatusPending).
			Update("status", models.ProposalStatusRejected).Error; err != nil {
			return apperrors.Internal("failed to reject pending proposals", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event.Status = models.EventStatusCancelled
	return event, nil
}

// OpenBriefs returns open briefs for vendors to browse, optionally filtered
// by city and event type
func (s *ProposalService) OpenBriefs(city, eventType string) ([]models.Event, error) {
	query := database.DB.Where("status = ?", models.EventStatusOpen)
	if city != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(city))
	}
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var events []models.Event
	if err := query.Order("event_date ASC").Find(&events).Error; err != nil {
		return nil, apperrors.Internal("failed to load open briefs", err)
	}
	return events, nil
}

// OrganizerBriefs returns the caller's briefs with their proposals
func (s *ProposalService) OrganizerBriefs(organizerID uint) ([]models.Event, error) {
	var events []models.Event
	if err := database.DB.Preload("Proposals.Vendor").
		Where("organizer_id = ?", organizerID).
		Order("created_at DESC").
		Find(&events).Error; err != nil {
		return nil, apperrors.Internal("failed to load event briefs", err)
	}
	return events, nil
}

// OrganizerBrief returns one brief with proposals, owner-checked
func (s *ProposalService) OrganizerBrief(organizerID, eventID uint) (*models.Event, error) {
	event, err := s.ownedEvent(organizerID, eventID)
	if err != nil {
		return nil, err
	}
	if err := database.DB.Preload("Proposals.Vendor").First(event, event.ID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload event brief", err)
	}
	return event, nil
}

// SubmitProposal creates a vendor's priced bid against an open brief. One
// proposal per vendor per event; the composite unique index backs up the
// application-level check under concurrent submission.
func (s *ProposalService) SubmitProposal(vendorID, eventID uint, req models.ProposalCreate) (*models.Proposal, error) {
	if req.Price <= 0 {
		return nil, apperrors.Validation("price must be greater than zero")
	}
	if len([]rune(strings.TrimSpace(req.Message))) < models.MinProposalMessageLen {
		return nil, apperrors.Validation(fmt.Sprintf("message must be at least %d characters", models.MinProposalMessageLen))
	}

	var event models.Event
	if err := database.DB.First(&event, eventID).Error; err != nil {
		return nil, apperrors.NotFound("event")
	}
	if event.Status != models.EventStatusOpen {
		return nil, apperrors.InvalidState("event is not open for proposals")
	}

	var existing models.Proposal
	err := database.DB.Where("event_id = ? AND vendor_id = ?", eventID, vendorID).First(&existing).Error
	if err == nil {
		return nil, apperrors.InvalidState("you already submitted a proposal for this event")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("failed to check existing proposal", err)
	}

	proposal := models.Proposal{
		EventID:  eventID,
		VendorID: vendorID,
		Price:    req.Price,
		Message:  strings.TrimSpace(req.Message),
		Status:   models.ProposalStatusPending,
	}
	if err := database.DB.Create(&proposal).Error; err != nil {
		// Unique index catches the concurrent double submit
		return nil, apperrors.InvalidState("you already submitted a proposal for this event")
	}
	return &proposal, nil
}

// AcceptProposal accepts one pending proposal and atomically rejects every
// other pending proposal on the same event, moving the event to booked. The
// conditional update of the event row out of open is the serialization point:
// the first writer wins, the loser fails with InvalidState.
func (s *ProposalService) AcceptProposal(organizerID, eventID, proposalID uint) (*models.Proposal, error) {
	event, err := s.ownedEvent(organizerID, eventID)
	if err != nil {
		return nil, err
	}

	var accepted models.Proposal
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&accepted, proposalID).Error; err != nil {
			return apperrors.NotFound("proposal")
		}
		if accepted.EventID != event.ID {
			return apperrors.NotFound("proposal")
		}
		if accepted.Status != models.ProposalStatusPending {
			return apperrors.InvalidState(fmt.Sprintf("proposal is already %s", accepted.Status))
		}

		result := tx.Model(&models.Event{}).
			Where("id = ? AND status = ?", event.ID, models.EventStatusOpen).
			Update("status", models.EventStatusBooked)
		if result.Error != nil {
			return apperrors.Internal("failed to book event", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.InvalidState("event is no longer open")
		}

		if err := tx.Model(&models.Proposal{}).
			Where("id = ?", accepted.ID).
			Update("status", models.ProposalStatusAccepted).Error; err != nil {
			return apperrors.Internal("failed to accept proposal", err)
		}

		if err := tx.Model(&models.Proposal{}).
			Where("event_id = ? AND id <> ? AND status = ?", event.ID, accepted.ID, models.ProposalStatusPending).
			Update("status", models.ProposalStatusRejected).Error; err != nil {
			return apperrors.Internal("failed to reject other proposals", err)
		}

		accepted.Status = models.ProposalStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &accepted, nil
}

// RejectProposal rejects a single pending proposal without closing the brief
func (s *ProposalService) RejectProposal(organizerID, eventID, proposalID uint) (*models.Proposal, error) {
	event, err := s.ownedEvent(organizerID, eventID)
	if err != nil {
		return nil, err
	}

	var proposal models.Proposal
	if err := database.DB.First(&proposal, proposalID).Error; err != nil {
		return nil, apperrors.NotFound("proposal")
	}
	if proposal.EventID != event.ID {
		return nil, apperrors.NotFound("proposal")
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.InvalidState(fmt.Sprintf("proposal is already %s", proposal.Status))
	}

	if err := database.DB.Model(&models.Proposal{}).
		Where("id = ? AND status = ?", proposal.ID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected).Error; err != nil {
		return nil, apperrors.Internal("failed to reject proposal", err)
	}
	proposal.Status = models.ProposalStatusRejected
	return &proposal, nil
}

// VendorProposals returns a vendor's proposals, newest first
func (s *ProposalService) VendorProposals(vendorID uint) ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := database.DB.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return nil, apperrors.Internal("failed to load proposals", err)
	}
	return proposals, nil
}

// ownedEvent loads an event and checks ownership without leaking existence
func (s *ProposalService) ownedEvent(organizerID, eventID uint) (*models.Event, error) {
	var event models.Event
	if err := database.DB.First(&event, eventID).Error; err != nil {
		return nil, apperrors.NotFound("event")
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.Forbidden("event")
	}
	return &event, nil
}
