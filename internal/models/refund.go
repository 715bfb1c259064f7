package models

import (
	"time"

	"gorm.io/gorm"
)

// Refund is the single canonical refund relation: at most one per Payment,
// created only by an explicit refund request after rejection/cancellation.
type Refund struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PaymentID   uint           `gorm:"not null;uniqueIndex" json:"payment_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, PROCESSING, COMPLETED, FAILED
	Reason      string         `gorm:"size:512" json:"reason"`
	ExternalRef string         `gorm:"size:255" json:"external_ref"`
	RefundDate  *time.Time     `json:"refund_date"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Refund) TableName() string {
	return "refunds"
}
