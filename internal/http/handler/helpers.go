package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pinecrest.club/gazette/internal/service"
	"pinecrest.club/gazette/internal/store"
)

// respondError maps domain errors onto HTTP statuses. Unknown errors become
// a generic 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrNotAssigned):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, service.ErrAlreadyPublished),
		errors.Is(err, service.ErrSectionLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAssignee),
		errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidSectionType),
		errors.Is(err, service.ErrNoEligibleMembers):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
