package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"venuely/config"
	"venuely/internal/domain"
	"venuely/internal/models"
	"venuely/internal/repository"
	"venuely/pkg/payment"
	"venuely/pkg/schedule"
)

// BookingStore is the persistence surface the engine needs. Implemented by
// repository.BookingRepository; tests substitute hand-written mocks.
type BookingStore interface {
	GetByID(id uint) (*models.Booking, error)
	List(f repository.BookingFilter) ([]models.Booking, int64, error)
	CreateHeld(b *models.Booking, p *models.Payment, holds domain.StatusSet) error
	TransitionStatus(id uint, from, to, reason string) (*models.Booking, error)
	ApproveRechecked(id uint, holds domain.StatusSet) (*models.Booking, error)
	ListExpiredApproved(now time.Time) ([]models.Booking, error)
}

type PaymentStore interface {
	GetByID(id uint) (*models.Payment, error)
	GetByBookingID(bookingID uint) (*models.Payment, error)
	GetByExternalRef(ref string) (*models.Payment, error)
	Update(p *models.Payment) error
	MarkPaid(id uint, at time.Time) (bool, error)
}

type BuildingStore interface {
	GetByID(id uint) (*models.Building, error)
	All() ([]models.Building, error)
}

// Pagination is the envelope every listing endpoint returns alongside data.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{CurrentPage: page, TotalPages: pages, TotalItems: total, ItemsPerPage: limit}
}

// BookingService owns the reservation lifecycle: submission with conflict
// prevention, the approval/rejection/cancellation transitions, payment
// confirmation and completion sweeping. Every transition emits exactly one
// event to the registered listeners after it commits.
type BookingService struct {
	bookings  BookingStore
	payments  PaymentStore
	buildings BuildingStore
	gateway   payment.Provider
	validator *Validator
	gwCfg     config.GatewayConfig

	// holds is the active-hold policy for submission; approvalHolds is the
	// narrower set an admin approval re-checks against (other PROCESSING
	// bookings do not block the first approval to land).
	holds         domain.StatusSet
	approvalHolds domain.StatusSet

	listeners []TransitionListener
	now       func() time.Time
}

func NewBookingService(bookings BookingStore, payments PaymentStore, buildings BuildingStore, gateway payment.Provider, cfg *config.Config) *BookingService {
	return &BookingService{
		bookings:      bookings,
		payments:      payments,
		buildings:     buildings,
		gateway:       gateway,
		validator:     NewValidator(cfg.Booking),
		gwCfg:         cfg.Gateway,
		holds:         domain.ActiveHold(),
		approvalHolds: domain.NewStatusSet(domain.BookingApproved, domain.BookingCompleted),
		now:           time.Now,
	}
}

// Subscribe registers a transition listener. Not safe to call after the
// service starts handling requests.
func (s *BookingService) Subscribe(l TransitionListener) {
	s.listeners = append(s.listeners, l)
}

// Submit validates the request, then inserts the booking (PENDING) and its
// payment (PENDING) behind the transactional conflict check. The gateway
// call happens strictly after the commit, with no lock held; a gateway
// failure leaves the committed rows intact and surfaces as a GatewayError
// the caller can retry via InitiatePayment.
func (s *BookingService) Submit(ctx context.Context, borrowerID uint, req BookingRequest) (*models.Booking, error) {
	validated, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}
	building, err := s.buildings.GetByID(validated.BuildingID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BuildingID:    building.ID,
		BorrowerID:    borrowerID,
		ActivityName:  validated.ActivityName,
		StartDate:     validated.Slot.StartDate,
		EndDate:       validated.Slot.EndDate,
		StartTime:     schedule.FormatClock(validated.Slot.StartMin),
		EndTime:       schedule.FormatClock(validated.Slot.EndMin),
		Status:        domain.BookingPending,
		AttachmentURL: validated.AttachmentURL,
	}
	pay := &models.Payment{
		AmountCents: building.RentalPriceCents,
		Currency:    "USD",
		Status:      domain.PaymentPending,
	}
	if err := s.bookings.CreateHeld(booking, pay, s.holds); err != nil {
		return nil, err
	}
	booking.Payment = pay

	s.emit(domain.EventBookingSubmitted, booking, "", booking.Status)

	if err := s.initiatePayment(ctx, booking, pay); err != nil {
		return booking, err
	}
	return booking, nil
}

// InitiatePayment requests a gateway payment handle for a booking whose
// payment has none yet (first attempt failed or was never made).
func (s *BookingService) InitiatePayment(ctx context.Context, bookingID uint) (*models.Payment, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	pay, err := s.payments.GetByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	if pay.Status != domain.PaymentPending {
		return pay, nil
	}
	if pay.ExternalRef != "" {
		return pay, nil
	}
	if err := s.initiatePayment(ctx, booking, pay); err != nil {
		return pay, err
	}
	return pay, nil
}

func (s *BookingService) initiatePayment(ctx context.Context, booking *models.Booking, pay *models.Payment) error {
	ref := fmt.Sprintf("booking_%d_%d", booking.ID, s.now().UnixNano())
	resp, err := s.gateway.CreatePayment(ctx, payment.PaymentRequest{
		BookingID:   booking.ID,
		AmountCents: pay.AmountCents,
		Currency:    pay.Currency,
		Reference:   ref,
		Description: booking.ActivityName,
		ExpiresIn:   s.gwCfg.PaymentExpiry,
		CallbackURL: s.gwCfg.WebhookBaseURL + "/api/v1/webhooks/payment",
	})
	if err != nil {
		return &domain.GatewayError{Op: "create payment", Err: err}
	}
	pay.ExternalRef = resp.Reference
	pay.CheckoutURL = resp.CheckoutURL
	if !resp.ExpiresAt.IsZero() {
		expires := resp.ExpiresAt
		pay.ExpiresAt = &expires
	}
	return s.payments.Update(pay)
}

// ConfirmPayment applies a gateway confirmation callback. PAID moves the
// booking PENDING -> PROCESSING; duplicate callbacks are no-ops.
func (s *BookingService) ConfirmPayment(externalRef, status string) error {
	pay, err := s.payments.GetByExternalRef(externalRef)
	if err != nil {
		return err
	}
	switch status {
	case domain.PaymentPaid:
		confirmed, err := s.payments.MarkPaid(pay.ID, s.now())
		if err != nil {
			return err
		}
		if !confirmed {
			return nil // replayed or out-of-order callback
		}
		booking, err := s.bookings.TransitionStatus(pay.BookingID, domain.BookingPending, domain.BookingProcessing, "")
		if err != nil {
			return err
		}
		s.emit(domain.EventPaymentConfirmed, booking, domain.BookingPending, booking.Status)
		return nil
	case domain.PaymentExpired, domain.PaymentFailed:
		if pay.Status != domain.PaymentPending {
			return nil
		}
		pay.Status = status
		return s.payments.Update(pay)
	default:
		return nil
	}
}

// Approve commits PROCESSING -> APPROVED after re-validating the slot
// against bookings that became APPROVED since submission.
func (s *BookingService) Approve(bookingID uint) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(booking.Status, domain.BookingApproved); err != nil {
		return nil, err
	}
	approved, err := s.bookings.ApproveRechecked(bookingID, s.approvalHolds)
	if err != nil {
		return nil, err
	}
	s.emit(domain.EventBookingApproved, approved, domain.BookingProcessing, approved.Status)
	return approved, nil
}

// Reject commits PROCESSING -> REJECTED with the admin's reason. The
// borrower becomes refund-eligible if the payment was already confirmed.
func (s *BookingService) Reject(bookingID uint, reason string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if err := CheckTransition(booking.Status, domain.BookingRejected); err != nil {
		return nil, err
	}
	rejected, err := s.bookings.TransitionStatus(bookingID, booking.Status, domain.BookingRejected, reason)
	if err != nil {
		return nil, err
	}
	s.emit(domain.EventBookingRejected, rejected, booking.Status, rejected.Status)
	return rejected, nil
}

// Cancel ends a booking before it starts. Borrowers may cancel their own
// PENDING or PROCESSING bookings; cancelling an APPROVED booking is an admin
// override. Once a refund for the booking's payment has reached the gateway
// (PROCESSING), local cancellation is off the table.
func (s *BookingService) Cancel(bookingID, userID uint, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.BorrowerID != userID {
		return nil, domain.ErrNotFound
	}
	if err := CheckTransition(booking.Status, domain.BookingCancelled); err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingApproved && !isAdmin {
		return nil, &domain.StateTransitionError{From: booking.Status, To: domain.BookingCancelled}
	}
	slot, err := booking.Slot()
	if err != nil {
		return nil, err
	}
	start := slot.StartDate.Add(time.Duration(slot.StartMin) * time.Minute)
	if !s.now().Before(start) {
		return nil, &domain.StateTransitionError{From: booking.Status, To: domain.BookingCancelled}
	}
	if booking.Payment != nil && booking.Payment.Refund != nil &&
		booking.Payment.Refund.Status == domain.RefundProcessing {
		return nil, domain.ErrRefundInProgress
	}
	cancelled, err := s.bookings.TransitionStatus(bookingID, booking.Status, domain.BookingCancelled, "")
	if err != nil {
		return nil, err
	}
	s.emit(domain.EventBookingCancelled, cancelled, booking.Status, cancelled.Status)
	return cancelled, nil
}

// GetByID returns a booking; non-admin callers only see their own.
func (s *BookingService) GetByID(bookingID, userID uint, isAdmin bool) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.BorrowerID != userID {
		return nil, domain.ErrNotFound
	}
	return booking, nil
}

// List returns one page of bookings with the pagination envelope.
func (s *BookingService) List(f repository.BookingFilter) ([]models.Booking, Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	list, total, err := s.bookings.List(f)
	if err != nil {
		return nil, Pagination{}, err
	}
	return list, NewPagination(f.Page, f.Limit, total), nil
}

// CompleteExpired sweeps APPROVED bookings whose end datetime has passed and
// drives each through APPROVED -> COMPLETED, so completion is durably
// persisted and notifies exactly once.
func (s *BookingService) CompleteExpired() (int, error) {
	expired, err := s.bookings.ListExpiredApproved(s.now())
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range expired {
		done, err := s.bookings.TransitionStatus(b.ID, domain.BookingApproved, domain.BookingCompleted, "")
		if err != nil {
			log.Printf("[sweep] booking %d: %v", b.ID, err)
			continue
		}
		s.emit(domain.EventBookingCompleted, done, domain.BookingApproved, done.Status)
		n++
	}
	return n, nil
}

// RunCompletionSweeper ticks CompleteExpired until the context ends.
func (s *BookingService) RunCompletionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := s.CompleteExpired(); err != nil {
				log.Printf("[sweep] %v", err)
			} else if n > 0 {
				log.Printf("[sweep] completed %d bookings", n)
			}
		}
	}
}

func (s *BookingService) emit(eventType string, b *models.Booking, from, to string) {
	evt := TransitionEvent{
		Type:       eventType,
		BookingID:  b.ID,
		BuildingID: b.BuildingID,
		BorrowerID: b.BorrowerID,
		From:       from,
		To:         to,
		Reason:     b.RejectReason,
		At:         s.now(),
	}
	for _, l := range s.listeners {
		l.BookingTransition(evt)
	}
}
