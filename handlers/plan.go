package handlers

import (
	"io"
	"net/http"

	"vacaplan/models"
	"vacaplan/services/booking"
	"vacaplan/services/planner"
	"vacaplan/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlanHandler serves the planning endpoints: start, status and stream.
type PlanHandler struct {
	Registry     *planner.Registry
	Orchestrator *planner.Orchestrator
	Tokens       *booking.TokenAuthority
}

func NewPlanHandler(registry *planner.Registry, orchestrator *planner.Orchestrator, tokens *booking.TokenAuthority) *PlanHandler {
	return &PlanHandler{Registry: registry, Orchestrator: orchestrator, Tokens: tokens}
}

// CreatePlan starts an async planning session and returns its identifier
// together with a booking token for the later confirmation step. Progress
// is available via /status/:sessionID and /stream/:sessionID.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sessionID := uuid.New().String()
	h.Registry.Register(sessionID, req)

	// Fire-and-forget: the pipeline outlives this request.
	go h.Orchestrator.Run(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"session_id":    sessionID,
		"booking_token": h.Tokens.Issue(sessionID),
		"message":       "Planning started",
	})
}

// GetStatus returns the current progress snapshot for a session.
func (h *PlanHandler) GetStatus(c *gin.Context) {
	sessionID := c.Param("sessionID")
	snap, ok := h.Registry.Snapshot(sessionID)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}
	c.JSON(http.StatusOK, snap.Status())
}

// StreamUpdates emits a Server-Sent Events feed with one event per
// completed stage, terminated by the DONE sentinel.
func (h *PlanHandler) StreamUpdates(c *gin.Context) {
	sessionID := c.Param("sessionID")
	events, ok := h.Registry.StreamSteps(c.Request.Context(), sessionID, planner.DefaultPollInterval)
	if !ok {
		utils.JSONError(c, http.StatusNotFound, "Session not found", sessionID)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		event, open := <-events
		if !open {
			return false
		}
		c.SSEvent("message", event)
		return true
	})
}
