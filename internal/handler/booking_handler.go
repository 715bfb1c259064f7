package handler

import (
	"net/http"
	"strconv"
	"time"

	"venuely/internal/middleware"
	"venuely/internal/repository"
	"venuely/internal/service"
	"venuely/pkg/schedule"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingSvc *service.BookingService
	refundSvc  *service.RefundService
}

func NewBookingHandler(bookingSvc *service.BookingService, refundSvc *service.RefundService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, refundSvc: refundSvc}
}

type submitRequest struct {
	BuildingID    uint   `json:"buildingId" binding:"required"`
	ActivityName  string `json:"activityName" binding:"required"`
	StartDate     string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate       string `json:"endDate"`
	StartTime     string `json:"startTime" binding:"required"` // HH:MM
	EndTime       string `json:"endTime" binding:"required"`
	AttachmentURL string `json:"attachmentUrl" binding:"required"`
}

// Submit handles POST /bookings.
func (h *BookingHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startDate, err := time.Parse(schedule.DateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be YYYY-MM-DD"})
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		d, err := time.Parse(schedule.DateLayout, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be YYYY-MM-DD"})
			return
		}
		endDate = &d
	}
	booking, err := h.bookingSvc.Submit(c.Request.Context(), userID, service.BookingRequest{
		BuildingID:    req.BuildingID,
		ActivityName:  req.ActivityName,
		StartDate:     startDate,
		EndDate:       endDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		// The booking may have committed with the gateway call failing
		// afterwards; the client retries payment initiation separately.
		if booking != nil {
			c.JSON(http.StatusCreated, gin.H{"booking": booking, "payment_error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// List handles GET /bookings for the authenticated borrower.
func (h *BookingHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	f := parseBookingFilter(c)
	f.BorrowerID = userID
	list, page, err := h.bookingSvc.List(f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "pagination": page})
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	id := paramID(c)
	booking, err := h.bookingSvc.GetByID(id, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Cancel handles POST /bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id := paramID(c)
	booking, err := h.bookingSvc.Cancel(id, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// InitiatePayment handles POST /bookings/:id/payment, retrying a failed
// gateway handle request.
func (h *BookingHandler) InitiatePayment(c *gin.Context) {
	id := paramID(c)
	userID := middleware.GetUserID(c)
	booking, err := h.bookingSvc.GetByID(id, userID, middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	pay, err := h.bookingSvc.InitiatePayment(c.Request.Context(), booking.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pay)
}

// RequestRefund handles POST /bookings/:id/refund.
func (h *BookingHandler) RequestRefund(c *gin.Context) {
	id := paramID(c)
	var req struct {
		AmountCents int64  `json:"amountCents"`
		Reason      string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refund, err := h.refundSvc.Request(c.Request.Context(), id, middleware.GetUserID(c), middleware.IsAdmin(c), req.AmountCents, req.Reason)
	if err != nil {
		if refund != nil {
			// Refund row exists but the gateway dispatch failed.
			c.JSON(http.StatusAccepted, gin.H{"refund": refund, "gateway_error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, refund)
}

// GetRefund handles GET /bookings/:id/refund.
func (h *BookingHandler) GetRefund(c *gin.Context) {
	id := paramID(c)
	refund, err := h.refundSvc.GetForBooking(id, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refund)
}

func paramID(c *gin.Context) uint {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	return uint(id)
}

func parseBookingFilter(c *gin.Context) repository.BookingFilter {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	f := repository.BookingFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	if v, err := strconv.ParseUint(c.Query("buildingId"), 10, 64); err == nil {
		f.BuildingID = uint(v)
	}
	if d, err := time.Parse(schedule.DateLayout, c.Query("dateFrom")); err == nil {
		f.DateFrom = &d
	}
	if d, err := time.Parse(schedule.DateLayout, c.Query("dateTo")); err == nil {
		f.DateTo = &d
	}
	return f
}
