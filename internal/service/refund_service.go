package service

import (
	"context"
	"log"
	"time"

	"venuely/config"
	"venuely/internal/domain"
	"venuely/internal/models"
	"venuely/pkg/payment"
)

type RefundStore interface {
	CreateIfAbsent(ref *models.Refund) (*models.Refund, bool, error)
	GetByPaymentID(paymentID uint) (*models.Refund, error)
	GetByExternalRef(ref string) (*models.Refund, error)
	Update(ref *models.Refund) error
}

// RefundService runs the money-return sub-workflow. A refund exists only
// after an explicit request, at most one per payment; requesting again
// returns the existing refund unchanged.
type RefundService struct {
	bookings BookingStore
	payments PaymentStore
	refunds  RefundStore
	gateway  payment.Provider
	gwCfg    config.GatewayConfig

	listeners []TransitionListener
	now       func() time.Time
}

func NewRefundService(bookings BookingStore, payments PaymentStore, refunds RefundStore, gateway payment.Provider, cfg *config.Config) *RefundService {
	return &RefundService{
		bookings: bookings,
		payments: payments,
		refunds:  refunds,
		gateway:  gateway,
		gwCfg:    cfg.Gateway,
		now:      time.Now,
	}
}

func (s *RefundService) Subscribe(l TransitionListener) {
	s.listeners = append(s.listeners, l)
}

// Request creates the refund for a booking and dispatches it to the
// gateway. amountCents of 0 means a full refund. Gateway failures are
// retried a fixed number of times, then the refund is marked FAILED for
// manual intervention; the booking's REJECTED/CANCELLED status is never
// rolled back, it committed independently.
func (s *RefundService) Request(ctx context.Context, bookingID, userID uint, isAdmin bool, amountCents int64, reason string) (*models.Refund, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.BorrowerID != userID {
		return nil, domain.ErrNotFound
	}
	if booking.Status != domain.BookingRejected && booking.Status != domain.BookingCancelled {
		return nil, domain.ErrRefundNotEligible
	}
	pay, err := s.payments.GetByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	if pay.Status != domain.PaymentPaid && pay.Status != domain.PaymentStopped {
		return nil, domain.ErrRefundNotEligible
	}
	if amountCents == 0 {
		amountCents = pay.AmountCents
	}
	if amountCents < 0 || amountCents > pay.AmountCents {
		verr := domain.NewValidationError()
		verr.Add("amount", "must not exceed the payment amount")
		return nil, verr
	}

	refund, created, err := s.refunds.CreateIfAbsent(&models.Refund{
		PaymentID:   pay.ID,
		AmountCents: amountCents,
		Status:      domain.RefundPending,
		Reason:      reason,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		// Idempotent by payment identity: the earlier refund wins, whatever
		// state it is in.
		return refund, nil
	}

	s.emitFor(booking, domain.EventRefundRequested, "")

	if err := s.dispatch(ctx, booking, pay, refund); err != nil {
		return refund, err
	}
	return refund, nil
}

// dispatch sends the refund to the gateway with bounded retries. Runs after
// the refund row committed; no database lock is held across the calls.
func (s *RefundService) dispatch(ctx context.Context, booking *models.Booking, pay *models.Payment, refund *models.Refund) error {
	attempts := s.gwCfg.RefundRetries
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := s.gateway.CreateRefund(ctx, payment.RefundRequest{
			PaymentReference: pay.ExternalRef,
			AmountCents:      refund.AmountCents,
			Reason:           refund.Reason,
			CallbackURL:      s.gwCfg.WebhookBaseURL + "/api/v1/webhooks/refund",
		})
		if err != nil {
			lastErr = err
			log.Printf("[refund] booking %d attempt %d/%d: %v", booking.ID, i+1, attempts, err)
			continue
		}
		refund.Status = domain.RefundProcessing
		refund.ExternalRef = resp.RefundID
		return s.refunds.Update(refund)
	}
	refund.Status = domain.RefundFailed
	if err := s.refunds.Update(refund); err != nil {
		return err
	}
	s.emitFor(booking, domain.EventRefundFailed, "")
	return &domain.GatewayError{Op: "create refund", Err: lastErr}
}

// Resolve applies the gateway's refund callback. COMPLETED freezes the
// payment (STOPPED); terminal refunds ignore replays.
func (s *RefundService) Resolve(externalRef, status string) error {
	refund, err := s.refunds.GetByExternalRef(externalRef)
	if err != nil {
		return err
	}
	if refund.Status == domain.RefundCompleted || refund.Status == domain.RefundFailed {
		return nil
	}
	switch status {
	case domain.RefundCompleted:
		now := s.now()
		refund.Status = domain.RefundCompleted
		refund.RefundDate = &now
		if err := s.refunds.Update(refund); err != nil {
			return err
		}
		p, err := s.payments.GetByID(refund.PaymentID)
		if err != nil {
			return err
		}
		p.Status = domain.PaymentStopped
		if err := s.payments.Update(p); err != nil {
			return err
		}
		if booking, err := s.bookings.GetByID(p.BookingID); err == nil {
			s.emitFor(booking, domain.EventRefundCompleted, "")
		}
		return nil
	case domain.RefundFailed:
		refund.Status = domain.RefundFailed
		if err := s.refunds.Update(refund); err != nil {
			return err
		}
		if p, err := s.payments.GetByID(refund.PaymentID); err == nil {
			if booking, err := s.bookings.GetByID(p.BookingID); err == nil {
				s.emitFor(booking, domain.EventRefundFailed, "")
			}
		}
		return nil
	default:
		return nil
	}
}

// GetForBooking returns the booking's refund, if any.
func (s *RefundService) GetForBooking(bookingID, userID uint, isAdmin bool) (*models.Refund, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.BorrowerID != userID {
		return nil, domain.ErrNotFound
	}
	pay, err := s.payments.GetByBookingID(bookingID)
	if err != nil {
		return nil, err
	}
	return s.refunds.GetByPaymentID(pay.ID)
}

func (s *RefundService) emitFor(b *models.Booking, eventType, reason string) {
	evt := TransitionEvent{
		Type:       eventType,
		BookingID:  b.ID,
		BuildingID: b.BuildingID,
		BorrowerID: b.BorrowerID,
		From:       b.Status,
		To:         b.Status,
		Reason:     reason,
		At:         s.now(),
	}
	for _, l := range s.listeners {
		l.BookingTransition(evt)
	}
}
