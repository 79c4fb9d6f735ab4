package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
)

// ContributionHandler exposes the assign/nominate, submit and decline
// operations for each contributor role.
type ContributionHandler struct {
	issues     service.IssueService
	coaches    service.CoachService
	hosts      service.HostService
	highlights service.HighlightService
}

func NewContributionHandler(issues service.IssueService, coaches service.CoachService, hosts service.HostService, highlights service.HighlightService) *ContributionHandler {
	return &ContributionHandler{issues: issues, coaches: coaches, hosts: hosts, highlights: highlights}
}

func (h *ContributionHandler) issue(c *gin.Context) (*model.Issue, bool) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return issue, true
}

func (h *ContributionHandler) AssignCoach(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID *int64 `json:"member_id"`
		Reassign bool   `json:"reassign"`
		Notify   bool   `json:"notify"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rot, err := h.coaches.Assign(c.Request.Context(), issue.ID, req.MemberID, req.Reassign)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Notify {
		if err := h.coaches.Request(c.Request.Context(), issue.ID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, rot)
}

func (h *ContributionHandler) SubmitCoach(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID int64  `json:"member_id" binding:"required"`
		Body     string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id and body are required"})
		return
	}

	rot, err := h.coaches.Submit(c.Request.Context(), issue.ID, req.MemberID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rot)
}

func (h *ContributionHandler) DeclineCoach(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID int64 `json:"member_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id is required"})
		return
	}

	replacement, err := h.coaches.Decline(c.Request.Context(), issue.ID, req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, replacement)
}

func (h *ContributionHandler) AssignHost(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID  *int64  `json:"member_id"`
		GuestName *string `json:"guest_name"`
		Reassign  bool    `json:"reassign"`
		Notify    bool    `json:"notify"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	spot, err := h.hosts.Assign(c.Request.Context(), issue.ID, req.MemberID, req.GuestName, req.Reassign)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Notify {
		if _, err := h.hosts.Notify(c.Request.Context(), issue.ID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, spot)
}

func (h *ContributionHandler) SubmitHost(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		Opener string `json:"opener" binding:"required"`
		Closer string `json:"closer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "opener and closer are required"})
		return
	}

	spot, err := h.hosts.Submit(c.Request.Context(), issue.ID, req.Opener, req.Closer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spot)
}

func (h *ContributionHandler) DeclineHost(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}
	spot, err := h.hosts.Decline(c.Request.Context(), issue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spot)
}

func (h *ContributionHandler) NominateHighlight(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID    int64  `json:"member_id" binding:"required"`
		NominatedBy *int64 `json:"nominated_by"`
		Reassign    bool   `json:"reassign"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id is required"})
		return
	}

	highlight, err := h.highlights.Nominate(c.Request.Context(), issue.ID, req.MemberID, req.NominatedBy, req.Reassign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, highlight)
}

func (h *ContributionHandler) SubmitHighlightAnswers(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID int64             `json:"member_id" binding:"required"`
		Answers  map[string]string `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id and answers are required"})
		return
	}

	highlight, err := h.highlights.SubmitAnswers(c.Request.Context(), issue.ID, req.MemberID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, highlight)
}

func (h *ContributionHandler) DeclineHighlight(c *gin.Context) {
	issue, ok := h.issue(c)
	if !ok {
		return
	}

	var req struct {
		MemberID int64 `json:"member_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id is required"})
		return
	}

	highlight, err := h.highlights.Decline(c.Request.Context(), issue.ID, req.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, highlight)
}
