package repository

import (
	"errors"

	"venuely/internal/domain"
	"venuely/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

// CreateIfAbsent inserts the refund unless one already exists for the
// payment, in which case the existing row is returned. The unique index on
// payment_id makes the one-refund-per-payment invariant hold even under
// concurrent requests; the OnConflict clause turns the race loser into a
// no-op instead of an error.
func (r *RefundRepository) CreateIfAbsent(ref *models.Refund) (*models.Refund, bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_id"}},
		DoNothing: true,
	}).Create(ref)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return ref, true, nil
	}
	existing, err := r.GetByPaymentID(ref.PaymentID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *RefundRepository) GetByPaymentID(paymentID uint) (*models.Refund, error) {
	var ref models.Refund
	if err := r.db.Where("payment_id = ?", paymentID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

func (r *RefundRepository) GetByExternalRef(ref string) (*models.Refund, error) {
	var out models.Refund
	if err := r.db.Where("external_ref = ?", ref).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *RefundRepository) Update(ref *models.Refund) error {
	return r.db.Save(ref).Error
}
