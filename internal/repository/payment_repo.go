package repository

import (
	"errors"
	"time"

	"venuely/internal/domain"
	"venuely/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Preload("Refund").First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByBookingID(bookingID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Preload("Refund").Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByExternalRef(ref string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Preload("Refund").Where("external_ref = ?", ref).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}

// Revenue returns total collected and total refunded, both in cents, for
// the admin dashboard. Collected counts PAID and STOPPED payments (STOPPED
// means the money arrived and was later returned); refunded counts
// completed refunds only.
func (r *PaymentRepository) Revenue() (collected, refunded int64, err error) {
	err = r.db.Model(&models.Payment{}).
		Where("status IN ?", []string{domain.PaymentPaid, domain.PaymentStopped}).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&collected).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.Refund{}).
		Where("status = ?", domain.RefundCompleted).
		Select("COALESCE(SUM(amount_cents), 0)").Scan(&refunded).Error
	if err != nil {
		return 0, 0, err
	}
	return collected, refunded, nil
}

// MarkPaid sets PAID and the confirmation time, but only from PENDING so a
// replayed webhook cannot resurrect a stopped or expired payment.
func (r *PaymentRepository) MarkPaid(id uint, at time.Time) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, domain.PaymentPending).
		Updates(map[string]interface{}{"status": domain.PaymentPaid, "paid_at": at})
	return res.RowsAffected > 0, res.Error
}
