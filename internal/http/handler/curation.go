package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pinecrest.club/gazette/internal/service"
)

// CurationHandler exposes the admin multi-select over QOTM responses and
// photo submissions.
type CurationHandler struct {
	issues service.IssueService
	qotm   service.QOTMService
	photos service.PhotoService
}

func NewCurationHandler(issues service.IssueService, qotm service.QOTMService, photos service.PhotoService) *CurationHandler {
	return &CurationHandler{issues: issues, qotm: qotm, photos: photos}
}

func (h *CurationHandler) ListQOTMResponses(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses, err := h.qotm.ListResponses(c.Request.Context(), issue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

func (h *CurationHandler) CurateQOTM(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		ResponseIDs []int64 `json:"response_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response_ids is required"})
		return
	}

	if err := h.qotm.Curate(c.Request.Context(), issue.ID, req.ResponseIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CurationHandler) ListPhotos(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	photos, err := h.photos.List(c.Request.Context(), issue.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func (h *CurationHandler) SubmitPhoto(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		MemberID   int64   `json:"member_id" binding:"required"`
		FileRef    string  `json:"file_ref" binding:"required"`
		Caption    *string `json:"caption"`
		Engagement int     `json:"engagement"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id and file_ref are required"})
		return
	}

	photo, err := h.photos.Submit(c.Request.Context(), issue.ID, req.MemberID, req.FileRef, req.Caption, req.Engagement)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, photo)
}

func (h *CurationHandler) CuratePhotos(c *gin.Context) {
	issue, err := h.issues.GetByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		PhotoIDs []int64 `json:"photo_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo_ids is required"})
		return
	}

	if err := h.photos.Curate(c.Request.Context(), issue.ID, req.PhotoIDs); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
