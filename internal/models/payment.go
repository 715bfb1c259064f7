package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	BookingID   uint           `gorm:"not null;uniqueIndex" json:"booking_id"`
	AmountCents int64          `gorm:"not null" json:"amount_cents"`
	Currency    string         `gorm:"size:3;default:'USD'" json:"currency"`
	Status      string         `gorm:"size:20;not null;index" json:"status"` // PENDING, PAID, FAILED, EXPIRED, STOPPED
	ExternalRef string         `gorm:"size:255;uniqueIndex" json:"external_ref"`
	CheckoutURL string         `gorm:"size:512" json:"checkout_url"`
	ExpiresAt   *time.Time     `json:"expires_at"`
	PaidAt      *time.Time     `json:"paid_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Refund *Refund `gorm:"foreignKey:PaymentID" json:"refund,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
