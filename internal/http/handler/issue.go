package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pinecrest.club/gazette/internal/model"
	"pinecrest.club/gazette/internal/service"
)

type IssueHandler struct {
	issues service.IssueService
	editor service.EditorService
}

func NewIssueHandler(issues service.IssueService, editor service.EditorService) *IssueHandler {
	return &IssueHandler{issues: issues, editor: editor}
}

func (h *IssueHandler) Get(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

func (h *IssueHandler) SetQOTMPrompt(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}
	if err := h.issues.SetQOTMPrompt(c.Request.Context(), issue.ID, req.Prompt); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *IssueHandler) Approve(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.issues.Approve(c.Request.Context(), issue.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *IssueHandler) Publish(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	published, err := h.issues.Publish(c.Request.Context(), issue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, published)
}

func (h *IssueHandler) RefreshDigest(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.issues.RefreshDigest(c.Request.Context(), issue); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *IssueHandler) GetSection(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	section, err := h.editor.Open(c.Request.Context(), issue.ID, model.SectionType(c.Param("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *IssueHandler) EditSection(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Editor  string `json:"editor" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "editor and content are required"})
		return
	}

	section, err := h.editor.Edit(c.Request.Context(), issue.ID, model.SectionType(c.Param("type")), req.Editor, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *IssueHandler) LockSection(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Editor string `json:"editor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "editor is required"})
		return
	}

	section, err := h.editor.Lock(c.Request.Context(), issue.ID, model.SectionType(c.Param("type")), req.Editor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}
