package models

import (
	"time"

	"venuely/pkg/schedule"

	"gorm.io/gorm"
)

type Booking struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BuildingID    uint           `gorm:"not null;index" json:"building_id"`
	BorrowerID    uint           `gorm:"not null;index" json:"borrower_id"`
	ActivityName  string         `gorm:"size:200;not null" json:"activity_name"`
	StartDate     time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate       time.Time      `gorm:"not null;index" json:"end_date"` // defaults to StartDate on submission
	StartTime     string         `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime       string         `gorm:"size:5;not null" json:"end_time"`
	Status        string         `gorm:"size:20;not null;index" json:"status"`
	RejectReason  string         `gorm:"size:512" json:"reject_reason,omitempty"`
	AttachmentURL string         `gorm:"size:512" json:"attachment_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Building Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
	Borrower User     `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	Payment  *Payment `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Slot returns the booking's occupation interval. Stored clock strings are
// written by the validator, so parse errors here mean corrupted rows.
func (b *Booking) Slot() (schedule.Slot, error) {
	return schedule.NewSlot(b.StartDate, b.EndDate, b.StartTime, b.EndTime)
}
