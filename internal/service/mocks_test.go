package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"venuely/config"
	"venuely/internal/conflict"
	"venuely/internal/domain"
	"venuely/internal/models"
	"venuely/internal/repository"
	"venuely/pkg/payment"
)

// fakeState is the shared in-memory backing for the store fakes, the way the
// real repositories share one *gorm.DB.
type fakeState struct {
	buildings map[uint]*models.Building
	bookings  map[uint]*models.Booking
	payments  map[uint]*models.Payment
	refunds   map[uint]*models.Refund
	nextID    uint
}

func newFakeState() *fakeState {
	return &fakeState{
		buildings: make(map[uint]*models.Building),
		bookings:  make(map[uint]*models.Booking),
		payments:  make(map[uint]*models.Payment),
		refunds:   make(map[uint]*models.Refund),
	}
}

func (s *fakeState) id() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeState) addBuilding(b *models.Building) *models.Building {
	if b.ID == 0 {
		b.ID = s.id()
	}
	s.buildings[b.ID] = b
	return b
}

// addBooking seeds a booking (and a payment when status implies one exists)
// without going through the conflict check.
func (s *fakeState) addBooking(b *models.Booking) *models.Booking {
	if b.ID == 0 {
		b.ID = s.id()
	}
	s.bookings[b.ID] = b
	return b
}

func (s *fakeState) addPayment(p *models.Payment) *models.Payment {
	if p.ID == 0 {
		p.ID = s.id()
	}
	s.payments[p.ID] = p
	return p
}

func (s *fakeState) paymentFor(bookingID uint) *models.Payment {
	for _, p := range s.payments {
		if p.BookingID == bookingID {
			return p
		}
	}
	return nil
}

func (s *fakeState) refundFor(paymentID uint) *models.Refund {
	for _, r := range s.refunds {
		if r.PaymentID == paymentID {
			return r
		}
	}
	return nil
}

func (s *fakeState) buildingBookings(buildingID uint, exceptID uint) []models.Booking {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.BuildingID == buildingID && b.ID != exceptID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeBookingStore struct{ *fakeState }

func (f *fakeBookingStore) GetByID(id uint) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p := f.paymentFor(id); p != nil {
		if r := f.refundFor(p.ID); r != nil {
			p.Refund = r
		}
		b.Payment = p
	}
	return b, nil
}

func (f *fakeBookingStore) List(flt repository.BookingFilter) ([]models.Booking, int64, error) {
	var all []models.Booking
	for _, b := range f.bookings {
		if flt.Status != "" && b.Status != flt.Status {
			continue
		}
		if flt.BuildingID != 0 && b.BuildingID != flt.BuildingID {
			continue
		}
		if flt.BorrowerID != 0 && b.BorrowerID != flt.BorrowerID {
			continue
		}
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	offset := (flt.Page - 1) * flt.Limit
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + flt.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeBookingStore) CreateHeld(b *models.Booking, p *models.Payment, holds domain.StatusSet) error {
	if _, ok := f.buildings[b.BuildingID]; !ok {
		return domain.ErrNotFound
	}
	slot, err := b.Slot()
	if err != nil {
		return err
	}
	conflicts := conflict.FindConflicts(slot, f.buildingBookings(b.BuildingID, 0), holds)
	if len(conflicts) > 0 {
		cerr := &domain.ConflictError{BuildingID: b.BuildingID}
		for _, c := range conflicts {
			cerr.BookingIDs = append(cerr.BookingIDs, c.ID)
		}
		return cerr
	}
	b.ID = f.id()
	f.bookings[b.ID] = b
	p.ID = f.id()
	p.BookingID = b.ID
	f.payments[p.ID] = p
	return nil
}

func (f *fakeBookingStore) TransitionStatus(id uint, from, to, reason string) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Status != from {
		return nil, &domain.StateTransitionError{From: b.Status, To: to}
	}
	b.Status = to
	if reason != "" {
		b.RejectReason = reason
	}
	return b, nil
}

func (f *fakeBookingStore) ApproveRechecked(id uint, holds domain.StatusSet) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Status != domain.BookingProcessing {
		return nil, &domain.StateTransitionError{From: b.Status, To: domain.BookingApproved}
	}
	slot, err := b.Slot()
	if err != nil {
		return nil, err
	}
	conflicts := conflict.FindConflicts(slot, f.buildingBookings(b.BuildingID, b.ID), holds)
	if len(conflicts) > 0 {
		cerr := &domain.ConflictError{BuildingID: b.BuildingID}
		for _, c := range conflicts {
			cerr.BookingIDs = append(cerr.BookingIDs, c.ID)
		}
		return nil, cerr
	}
	b.Status = domain.BookingApproved
	return b, nil
}

func (f *fakeBookingStore) ListExpiredApproved(now time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status != domain.BookingApproved {
			continue
		}
		slot, err := b.Slot()
		if err != nil {
			continue
		}
		if slot.End().Before(now) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBookingStore) ListForBuildingRange(buildingID uint, from, to time.Time, holds domain.StatusSet) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.buildingBookings(buildingID, 0) {
		if holds.Contains(b.Status) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakePaymentStore struct{ *fakeState }

func (f *fakePaymentStore) GetByID(id uint) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakePaymentStore) GetByBookingID(bookingID uint) (*models.Payment, error) {
	if p := f.paymentFor(bookingID); p != nil {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentStore) GetByExternalRef(ref string) (*models.Payment, error) {
	for _, p := range f.payments {
		if p.ExternalRef == ref {
			return p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePaymentStore) Update(p *models.Payment) error {
	f.payments[p.ID] = p
	return nil
}

func (f *fakePaymentStore) MarkPaid(id uint, at time.Time) (bool, error) {
	p, ok := f.payments[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if p.Status != domain.PaymentPending {
		return false, nil
	}
	p.Status = domain.PaymentPaid
	p.PaidAt = &at
	return true, nil
}

type fakeRefundStore struct{ *fakeState }

func (f *fakeRefundStore) CreateIfAbsent(r *models.Refund) (*models.Refund, bool, error) {
	if existing := f.refundFor(r.PaymentID); existing != nil {
		return existing, false, nil
	}
	r.ID = f.id()
	f.refunds[r.ID] = r
	return r, true, nil
}

func (f *fakeRefundStore) GetByPaymentID(paymentID uint) (*models.Refund, error) {
	if r := f.refundFor(paymentID); r != nil {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRefundStore) GetByExternalRef(ref string) (*models.Refund, error) {
	for _, r := range f.refunds {
		if r.ExternalRef == ref {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRefundStore) Update(r *models.Refund) error {
	f.refunds[r.ID] = r
	return nil
}

type fakeBuildingStore struct{ *fakeState }

func (f *fakeBuildingStore) GetByID(id uint) (*models.Building, error) {
	b, ok := f.buildings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (f *fakeBuildingStore) All() ([]models.Building, error) {
	var out []models.Building
	for _, b := range f.buildings {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeGateway fails the first payFails / refundFails calls, then succeeds.
type fakeGateway struct {
	payFails    int
	refundFails int
	payCalls    int
	refundCalls int
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req payment.PaymentRequest) (*payment.PaymentResponse, error) {
	g.payCalls++
	if g.payCalls <= g.payFails {
		return nil, errors.New("gateway unreachable")
	}
	return &payment.PaymentResponse{
		Reference:   fmt.Sprintf("ext_%d_%d", req.BookingID, g.payCalls),
		Status:      "PENDING",
		CheckoutURL: "https://gw.test/checkout/" + req.Reference,
	}, nil
}

func (g *fakeGateway) CreateRefund(ctx context.Context, req payment.RefundRequest) (*payment.RefundResponse, error) {
	g.refundCalls++
	if g.refundCalls <= g.refundFails {
		return nil, errors.New("gateway unreachable")
	}
	return &payment.RefundResponse{
		RefundID: fmt.Sprintf("rf_%d", g.refundCalls),
		Status:   "PROCESSING",
	}, nil
}

func (g *fakeGateway) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	return true, nil
}

// eventRecorder captures transition events in emission order.
type eventRecorder struct {
	events []TransitionEvent
}

func (r *eventRecorder) BookingTransition(evt TransitionEvent) {
	r.events = append(r.events, evt)
}

func (r *eventRecorder) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

var testNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Gateway: config.GatewayConfig{
			WebhookBaseURL: "http://localhost:8088",
			PaymentExpiry:  24 * time.Hour,
			RefundRetries:  3,
		},
		Booking: config.BookingConfig{
			MinDuration: 30 * time.Minute,
			MaxDuration: 14 * time.Hour,
		},
	}
}

func newTestBookingService(state *fakeState, gw *fakeGateway) (*BookingService, *eventRecorder) {
	svc := NewBookingService(
		&fakeBookingStore{state},
		&fakePaymentStore{state},
		&fakeBuildingStore{state},
		gw,
		testConfig(),
	)
	svc.now = func() time.Time { return testNow }
	svc.validator.now = svc.now
	rec := &eventRecorder{}
	svc.Subscribe(rec)
	return svc, rec
}

func newTestRefundService(state *fakeState, gw *fakeGateway) (*RefundService, *eventRecorder) {
	svc := NewRefundService(
		&fakeBookingStore{state},
		&fakePaymentStore{state},
		&fakeRefundStore{state},
		gw,
		testConfig(),
	)
	svc.now = func() time.Time { return testNow }
	rec := &eventRecorder{}
	svc.Subscribe(rec)
	return svc, rec
}
