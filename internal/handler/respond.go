package handler

import (
	"errors"
	"net/http"

	"venuely/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps the engine's error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	var cerr *domain.ConflictError
	if errors.As(err, &cerr) {
		c.JSON(http.StatusConflict, gin.H{"error": cerr.Error(), "conflicting_bookings": cerr.BookingIDs})
		return
	}
	var serr *domain.StateTransitionError
	if errors.As(err, &serr) {
		c.JSON(http.StatusConflict, gin.H{"error": serr.Error()})
		return
	}
	var gerr *domain.GatewayError
	if errors.As(err, &gerr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": gerr.Error()})
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrRefundNotEligible), errors.Is(err, domain.ErrRefundInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
