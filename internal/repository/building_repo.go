package repository

import (
	"errors"

	"venuely/internal/domain"
	"venuely/internal/models"

	"gorm.io/gorm"
)

type BuildingRepository struct {
	db *gorm.DB
}

func NewBuildingRepository(db *gorm.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) Create(b *models.Building) error {
	return r.db.Create(b).Error
}

func (r *BuildingRepository) Update(b *models.Building) error {
	return r.db.Save(b).Error
}

func (r *BuildingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Building{}, id).Error
}

func (r *BuildingRepository) GetByID(id uint) (*models.Building, error) {
	var b models.Building
	if err := r.db.Preload("Managers").First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns buildings with optional type filter, paginated.
func (r *BuildingRepository) List(buildingType string, page, limit int) ([]models.Building, int64, error) {
	q := r.db.Model(&models.Building{})
	if buildingType != "" {
		q = q.Where("type = ?", buildingType)
	}
	var total int64
	q.Count(&total)
	var list []models.Building
	err := q.Preload("Managers").Order("name ASC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// All returns every building; the cross-building availability search walks
// the full catalogue.
func (r *BuildingRepository) All() ([]models.Building, error) {
	var list []models.Building
	err := r.db.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *BuildingRepository) AddManager(m *models.BuildingManager) error {
	return r.db.Create(m).Error
}
