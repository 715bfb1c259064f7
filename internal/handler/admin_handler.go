package handler

import (
	"net/http"
	"strconv"

	"venuely/internal/repository"
	"venuely/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the review side of the booking lifecycle plus
// dashboard stats.
type AdminHandler struct {
	bookingSvc  *service.BookingService
	bookingRepo *repository.BookingRepository
	paymentRepo *repository.PaymentRepository
}

func NewAdminHandler(bookingSvc *service.BookingService, bookingRepo *repository.BookingRepository, paymentRepo *repository.PaymentRepository) *AdminHandler {
	return &AdminHandler{bookingSvc: bookingSvc, bookingRepo: bookingRepo, paymentRepo: paymentRepo}
}

// ListBookings handles GET /admin/bookings with the full filter set.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	f := parseBookingFilter(c)
	if v, err := strconv.ParseUint(c.Query("borrowerId"), 10, 64); err == nil {
		f.BorrowerID = uint(v)
	}
	list, page, err := h.bookingSvc.List(f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "pagination": page})
}

// Approve handles POST /admin/bookings/:id/approve. The slot is re-checked
// against bookings approved since submission before the transition commits.
func (h *AdminHandler) Approve(c *gin.Context) {
	booking, err := h.bookingSvc.Approve(paramID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Reject handles POST /admin/bookings/:id/reject.
func (h *AdminHandler) Reject(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a rejection reason is required"})
		return
	}
	booking, err := h.bookingSvc.Reject(paramID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	counts, err := h.bookingRepo.CountByStatus()
	if err != nil {
		respondError(c, err)
		return
	}
	collected, refunded, err := h.paymentRepo.Revenue()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bookings_by_status": counts,
		"revenue_cents":      collected,
		"refunded_cents":     refunded,
		"net_revenue_cents":  collected - refunded,
	})
}
