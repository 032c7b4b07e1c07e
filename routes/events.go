package routes

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"event-marketplace-server/models"
	"event-marketplace-server/services"
)

// RegisterEventRoutes registers the organizer brief lifecycle and proposal
// decision routes
func RegisterEventRoutes(router *gin.RouterGroup) {
	proposalService := services.NewProposalService()

	// Create a brief, optionally publishing it immediately
	router.POST("/events", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req models.EventCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		event, err := proposalService.CreateBrief(userID, req)
		if err != nil {
			respondError(c, err)
			return
		}

		log.Printf("✅ Event brief created: %d (%s) by user %d", event.ID, event.Status, userID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    gin.H{"event": event.ToResponse()},
		})
	})

	// List own briefs with proposals
	router.GET("/events", func(c *gin.Context) {
		userID := c.GetUint("user_id")

		events, err := proposalService.OrganizerBriefs(userID)
		if err != nil {
			respondError(c, err)
			return
		}

		responses := make([]models.EventResponse, 0, len(events))
		for i := range events {
			responses = append(responses, events[i].ToResponse())
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"events": responses},
		})
	})

	// Get one brief with its proposals
	router.GET("/events/:id", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		event, err := proposalService.OrganizerBrief(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"event": event.ToResponse()},
		})
	})

	// Publish a draft brief
	router.POST("/events/:id/publish", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		event, err := proposalService.PublishBrief(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"event": event.ToResponse()},
		})
	})

	// Cancel a brief
	router.POST("/events/:id/cancel", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		id, ok := paramUint(c, "id")
		if !ok {
			return
		}

		event, err := proposalService.CancelBrief(userID, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"event": event.ToResponse()},
		})
	})

	// Accept one proposal, closing the brief
	router.POST("/events/:id/proposals/:proposalId/accept", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		eventID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		proposalID, ok := paramUint(c, "proposalId")
		if !ok {
			return
		}

		proposal, err := proposalService.AcceptProposal(userID, eventID, proposalID)
		if err != nil {
			respondError(c, err)
			return
		}

		log.Printf("✅ Proposal %d accepted on event %d by user %d", proposal.ID, eventID, userID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"proposal": proposal},
		})
	})

	// Reject one proposal without closing the brief
	router.POST("/events/:id/proposals/:proposalId/reject", func(c *gin.Context) {
		userID := c.GetUint("user_id")
		eventID, ok := paramUint(c, "id")
		if !ok {
			return
		}
		proposalID, ok := paramUint(c, "proposalId")
		if !ok {
			return
		}

		proposal, err := proposalService.RejectProposal(userID, eventID, proposalID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"proposal": proposal},
		})
	})
}

// RegisterVendorProposalRoutes registers the vendor side of the proposal
// marketplace: browsing open briefs and submitting bids
func RegisterVendorProposalRoutes(router *gin.RouterGroup) {
	proposalService := services.NewProposalService()

	// Browse open briefs
	router.GET("/briefs", func(c *gin.Context) {
		events, err := proposalService.OpenBriefs(c.Query("city"), c.Query("event_type"))
		if err != nil {
			respondError(c, err)
			return
		}

		responses := make([]models.EventResponse, 0, len(events))
		for i := range events {
			responses = append(responses, events[i].ToResponse())
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"events": responses},
		})
	})

	// Submit a proposal against an open brief
	router.POST("/briefs/:id/proposals", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}
		eventID, ok := paramUint(c, "id")
		if !ok {
			return
		}

		var req models.ProposalCreate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"message": err.Error(),
			})
			return
		}

		proposal, err := proposalService.SubmitProposal(profile.ID, eventID, req)
		if err != nil {
			respondError(c, err)
			return
		}

		log.Printf("✅ Proposal %d submitted on event %d by vendor %d", proposal.ID, eventID, profile.ID)

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"data":    gin.H{"proposal": proposal},
		})
	})

	// List own proposals
	router.GET("/proposals", func(c *gin.Context) {
		profile, err := vendorProfile(c)
		if err != nil {
			respondError(c, err)
			return
		}

		proposals, err := proposalService.VendorProposals(profile.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"proposals": proposals},
		})
	})
}
