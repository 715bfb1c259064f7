package models

import (
	"time"

	"gorm.io/gorm"
)

type Building struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:255;not null;index" json:"name"`
	Type             string         `gorm:"size:50;index" json:"type"` // HALL, AUDITORIUM, MEETING_ROOM, SPORTS
	Capacity         int            `gorm:"not null" json:"capacity"`
	RentalPriceCents int64          `gorm:"not null" json:"rental_price_cents"`
	Location         string         `gorm:"size:512" json:"location"`
	Facilities       string         `gorm:"type:text" json:"facilities"` // JSON array of facility names
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Managers []BuildingManager `gorm:"foreignKey:BuildingID" json:"managers,omitempty"`
}

func (Building) TableName() string {
	return "buildings"
}

// BuildingManager is an administrative contact for a building. Managers are
// notification recipients only; they take no part in approval decisions.
type BuildingManager struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BuildingID uint      `gorm:"not null;index" json:"building_id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	Email      string    `gorm:"size:255" json:"email"`
	Phone      string    `gorm:"size:32" json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

func (BuildingManager) TableName() string {
	return "building_managers"
}
