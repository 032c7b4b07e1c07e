package jobs

import (
	"log"
	"time"

	"event-marketplace-server/database"
	"event-marketplace-server/models"
)

// ExpirationJob closes open event briefs whose date has passed. A brief that
// never got a proposal accepted is dead once the event day is over; leaving it
// open would keep collecting proposals nobody will read.
type ExpirationJob struct {
	stopChan chan bool
}

// NewExpirationJob creates a new expiration job
func NewExpirationJob() *ExpirationJob {
	return &ExpirationJob{
		stopChan: make(chan bool),
	}
}

// Start begins the expiration job
func (j *ExpirationJob) Start() {
	go j.run()
	log.Println("🚀 Expiration job started")
}

// Stop stops the expiration job
func (j *ExpirationJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Expiration job stopped")
}

func (j *ExpirationJob) run() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.checkExpiredBriefs()
		case <-j.stopChan:
			return
		}
	}
}

// checkExpiredBriefs finds open briefs whose event date has passed and cancels
// them, rejecting any still-pending proposals
func (j *ExpirationJob) checkExpiredBriefs() {
	var expired []models.Event
	err := database.DB.Where("status = ? AND event_date <= ?",
		models.EventStatusOpen, time.Now()).Find(&expired).Error
	if err != nil {
		log.Printf("❌ Error checking expired briefs: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}
	log.Printf("⏰ Found %d expired event briefs", len(expired))

	for _, event := range expired {
		j.expireBrief(event)
	}
}

func (j *ExpirationJob) expireBrief(event models.Event) {
	// Conditional update: skip briefs an organizer booked or cancelled since
	// the query ran
	result := database.DB.Model(&models.Event{}).
		Where("id = ? AND status = ?", event.ID, models.EventStatusOpen).
		Update("status", models.EventStatusCancelled)
	if result.Error != nil {
		log.Printf("❌ Failed to expire brief %d: %v", event.ID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		return
	}

	if err := database.DB.Model(&models.Proposal{}).
		Where("event_id = ? AND status = ?", event.ID, models.ProposalStatusPending).
		Update("status", models.ProposalStatusRejected).Error; err != nil {
		log.Printf("❌ Failed to reject proposals on expired brief %d: %v", event.ID, err)
		return
	}

	log.Printf("✅ Brief %d expired successfully", event.ID)
}
