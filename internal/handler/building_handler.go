package handler

import (
	"net/http"
	"strconv"

	"venuely/internal/models"
	"venuely/internal/repository"
	"venuely/internal/service"

	"github.com/gin-gonic/gin"
)

type BuildingHandler struct {
	repo *repository.BuildingRepository
}

func NewBuildingHandler(repo *repository.BuildingRepository) *BuildingHandler {
	return &BuildingHandler{repo: repo}
}

// List handles GET /buildings.
func (h *BuildingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	list, total, err := h.repo.List(c.Query("type"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list, "pagination": service.NewPagination(page, limit, total)})
}

// Get handles GET /buildings/:id.
func (h *BuildingHandler) Get(c *gin.Context) {
	b, err := h.repo.GetByID(paramID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type buildingRequest struct {
	Name             string `json:"name" binding:"required"`
	Type             string `json:"type" binding:"required"`
	Capacity         int    `json:"capacity" binding:"required,min=1"`
	RentalPriceCents int64  `json:"rentalPriceCents" binding:"required,min=0"`
	Location         string `json:"location"`
	Facilities       string `json:"facilities"`
}

// Create handles POST /admin/buildings.
func (h *BuildingHandler) Create(c *gin.Context) {
	var req buildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b := &models.Building{
		Name:             req.Name,
		Type:             req.Type,
		Capacity:         req.Capacity,
		RentalPriceCents: req.RentalPriceCents,
		Location:         req.Location,
		Facilities:       req.Facilities,
	}
	if err := h.repo.Create(b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// Update handles PUT /admin/buildings/:id.
func (h *BuildingHandler) Update(c *gin.Context) {
	b, err := h.repo.GetByID(paramID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	var req buildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b.Name = req.Name
	b.Type = req.Type
	b.Capacity = req.Capacity
	b.RentalPriceCents = req.RentalPriceCents
	b.Location = req.Location
	b.Facilities = req.Facilities
	if err := h.repo.Update(b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /admin/buildings/:id.
func (h *BuildingHandler) Delete(c *gin.Context) {
	if err := h.repo.Delete(paramID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// AddManager handles POST /admin/buildings/:id/managers.
func (h *BuildingHandler) AddManager(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m := &models.BuildingManager{
		BuildingID: paramID(c),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
	}
	if err := h.repo.AddManager(m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}
