package handler

import (
	"net/http"
	"strconv"
	"time"

	"venuely/internal/service"
	"venuely/pkg/schedule"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availSvc *service.AvailabilityService
}

func NewAvailabilityHandler(availSvc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availSvc: availSvc}
}

// Calendar handles GET /buildings/:id/calendar?year=2024&month=6.
func (h *AvailabilityHandler) Calendar(c *gin.Context) {
	id := paramID(c)
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	if year < 2000 || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month are required"})
		return
	}
	days, err := h.availSvc.MonthCalendar(id, year, time.Month(month))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"building_id": id, "days": days})
}

// Search handles GET /buildings/available?date=...&startTime=...&endTime=...
func (h *AvailabilityHandler) Search(c *gin.Context) {
	date, err := time.Parse(schedule.DateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	buildings, err := h.availSvc.SearchAvailable(date, c.Query("startTime"), c.Query("endTime"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": buildings})
}
