package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pinecrest.club/gazette/internal/service"
)

// OrchestratorHandler exposes out-of-band day triggering. The cron binary
// calls the same service directly; this endpoint is for admins replaying a
// day after a failure.
type OrchestratorHandler struct {
	orchestrator service.OrchestratorService
	location     *time.Location
}

func NewOrchestratorHandler(orchestrator service.OrchestratorService, location *time.Location) *OrchestratorHandler {
	return &OrchestratorHandler{orchestrator: orchestrator, location: location}
}

func (h *OrchestratorHandler) RunDay(c *gin.Context) {
	var req struct {
		// Day defaults to today's day-of-month in the reference zone.
		Day *int `json:"day"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	now := time.Now().In(h.location)
	day := now.Day()
	if req.Day != nil {
		day = *req.Day
	}
	if day < 1 || day > 31 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be between 1 and 31"})
		return
	}

	result, err := h.orchestrator.RunDay(c.Request.Context(), day, now)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": result.Success(),
		"period":  result.Period,
		"day":     result.Day,
		"actions": result.Actions,
		"errors":  result.Errors,
	})
}
