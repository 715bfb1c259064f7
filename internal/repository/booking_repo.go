package repository

import (
	"errors"
	"time"

	"venuely/internal/conflict"
	"venuely/internal/domain"
	"venuely/internal/models"
	"venuely/pkg/schedule"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BookingFilter narrows listing queries. Zero values mean "no filter".
type BookingFilter struct {
	Status     string
	BuildingID uint
	BorrowerID uint
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	Limit      int
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Preload("Building").Preload("Payment").Preload("Payment.Refund").First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns one page of bookings plus the unpaged total. Count and page
// run inside one transaction so the pagination envelope is computed against
// a single snapshot.
func (r *BookingRepository) List(f BookingFilter) ([]models.Booking, int64, error) {
	var list []models.Booking
	var total int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Booking{})
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.BuildingID != 0 {
			q = q.Where("building_id = ?", f.BuildingID)
		}
		if f.BorrowerID != 0 {
			q = q.Where("borrower_id = ?", f.BorrowerID)
		}
		if f.DateFrom != nil {
			q = q.Where("end_date >= ?", schedule.Midnight(*f.DateFrom))
		}
		if f.DateTo != nil {
			q = q.Where("start_date <= ?", schedule.Midnight(*f.DateTo))
		}
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return q.Preload("Building").Preload("Payment").Preload("Payment.Refund").
			Order("created_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	})
	return list, total, err
}

// ListForBuildingRange returns the bookings for a building whose date range
// intersects [from, to], statuses filtered to holds. This is the read-path
// feed for the availability queries; it takes no lock.
func (r *BookingRepository) ListForBuildingRange(buildingID uint, from, to time.Time, holds domain.StatusSet) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Where("building_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
		buildingID, holds.Slice(), schedule.Midnight(to), schedule.Midnight(from)).Find(&list).Error
	return list, err
}

// CreateHeld inserts a booking and its payment row only if the slot is free.
// The conflict check and both inserts run in one transaction holding a row
// lock on the building, so two concurrent submissions for the same building
// serialize here; submissions for other buildings are unaffected.
func (r *BookingRepository) CreateHeld(b *models.Booking, p *models.Payment, holds domain.StatusSet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var building models.Building
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&building, b.BuildingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		slot, err := b.Slot()
		if err != nil {
			return err
		}
		existing, err := overlappingInTx(tx, b.BuildingID, slot, holds)
		if err != nil {
			return err
		}
		if found := conflict.FindConflicts(slot, existing, holds); len(found) > 0 {
			return conflictError(b.BuildingID, found)
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		p.BookingID = b.ID
		return tx.Create(p).Error
	})
}

// TransitionStatus moves a booking from one status to another, verifying the
// expected current status under a row lock so concurrent transitions cannot
// interleave. It updates nothing when the booking is not in `from`.
func (r *BookingRepository) TransitionStatus(id uint, from, to, reason string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if b.Status != from {
			return &domain.StateTransitionError{From: b.Status, To: to}
		}
		updates := map[string]interface{}{"status": to}
		if reason != "" {
			updates["reject_reason"] = reason
		}
		if err := tx.Model(&b).Updates(updates).Error; err != nil {
			return err
		}
		b.Status = to
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ApproveRechecked commits PROCESSING -> APPROVED after re-validating the
// slot against the current committed holds. Time passes between submission
// and admin approval; if a competing booking won the slot in the meantime
// the transition fails with a ConflictError and the booking stays
// PROCESSING.
func (r *BookingRepository) ApproveRechecked(id uint, holds domain.StatusSet) (*models.Booking, error) {
	var b models.Booking
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if b.Status != domain.BookingProcessing {
			return &domain.StateTransitionError{From: b.Status, To: domain.BookingApproved}
		}
		// Lock the building row: approval and submission serialize on the
		// same lock, so the re-check sees every committed hold.
		var building models.Building
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&building, b.BuildingID).Error; err != nil {
			return err
		}
		slot, err := b.Slot()
		if err != nil {
			return err
		}
		existing, err := overlappingInTx(tx, b.BuildingID, slot, holds)
		if err != nil {
			return err
		}
		others := make([]models.Booking, 0, len(existing))
		for _, e := range existing {
			if e.ID != b.ID {
				others = append(others, e)
			}
		}
		if found := conflict.FindConflicts(slot, others, holds); len(found) > 0 {
			return conflictError(b.BuildingID, found)
		}
		if err := tx.Model(&b).Update("status", domain.BookingApproved).Error; err != nil {
			return err
		}
		b.Status = domain.BookingApproved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListExpiredApproved returns APPROVED bookings whose final daily window has
// closed by now; the completion sweeper drives each through the state
// machine.
func (r *BookingRepository) ListExpiredApproved(now time.Time) ([]models.Booking, error) {
	var candidates []models.Booking
	err := r.db.Where("status = ? AND end_date <= ?", domain.BookingApproved, schedule.Midnight(now)).Find(&candidates).Error
	if err != nil {
		return nil, err
	}
	var expired []models.Booking
	for _, b := range candidates {
		slot, err := b.Slot()
		if err != nil {
			continue
		}
		if slot.End().Before(now) {
			expired = append(expired, b)
		}
	}
	return expired, nil
}

// CountByStatus feeds the admin dashboard.
func (r *BookingRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := r.db.Model(&models.Booking{}).Select("status, COUNT(*) as n").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

// overlappingInTx fetches the candidate's potential colliders: same
// building, status in holds, date ranges intersecting. The precise time
// comparison stays in the conflict package.
func overlappingInTx(tx *gorm.DB, buildingID uint, slot schedule.Slot, holds domain.StatusSet) ([]models.Booking, error) {
	var existing []models.Booking
	err := tx.Where("building_id = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
		buildingID, holds.Slice(), slot.EndDate, slot.StartDate).Find(&existing).Error
	return existing, err
}

func conflictError(buildingID uint, found []models.Booking) *domain.ConflictError {
	ids := make([]uint, len(found))
	for i, f := range found {
		ids[i] = f.ID
	}
	return &domain.ConflictError{BuildingID: buildingID, BookingIDs: ids}
}
