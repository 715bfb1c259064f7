package service

import (
	"context"
	"errors"
	"testing"

	"venuely/internal/domain"
	"venuely/internal/models"
)

// rejectedPaidBooking seeds the usual refund-eligible shape: a REJECTED
// booking whose payment already settled.
func rejectedPaidBooking(state *fakeState) (*models.Booking, *models.Payment) {
	bld := seedBuilding(state)
	b := seedBooking(state, bld.ID, 2, domain.BookingRejected, 10, "09:00", "11:00")
	p := state.addPayment(&models.Payment{
		BookingID:   b.ID,
		AmountCents: 500_00,
		Status:      domain.PaymentPaid,
		ExternalRef: "ext_paid",
	})
	return b, p
}

func TestRefundRequestDispatches(t *testing.T) {
	state := newFakeState()
	b, p := rejectedPaidBooking(state)
	gw := &fakeGateway{}
	svc, rec := newTestRefundService(state, gw)

	refund, err := svc.Request(context.Background(), b.ID, 2, false, 0, "event rejected")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if refund.Status != domain.RefundProcessing {
		t.Errorf("status = %s; want PROCESSING", refund.Status)
	}
	if refund.AmountCents != p.AmountCents {
		t.Errorf("zero amount must mean full refund, got %d", refund.AmountCents)
	}
	if refund.ExternalRef == "" {
		t.Error("gateway refund id not recorded")
	}
	if gw.refundCalls != 1 {
		t.Errorf("gateway called %d times", gw.refundCalls)
	}
	if got := rec.types(); len(got) != 1 || got[0] != domain.EventRefundRequested {
		t.Errorf("events = %v", got)
	}
}

func TestRefundRequestIdempotent(t *testing.T) {
	state := newFakeState()
	b, _ := rejectedPaidBooking(state)
	gw := &fakeGateway{}
	svc, _ := newTestRefundService(state, gw)

	first, err := svc.Request(context.Background(), b.ID, 2, false, 0, "first")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Request(context.Background(), b.ID, 2, false, 20_00, "second")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("second request created refund %d; want existing %d", second.ID, first.ID)
	}
	if second.AmountCents != first.AmountCents || second.Reason != "first" {
		t.Error("repeat request mutated the existing refund")
	}
	if gw.refundCalls != 1 {
		t.Errorf("gateway called %d times; the repeat must not redispatch", gw.refundCalls)
	}
	if len(state.refunds) != 1 {
		t.Errorf("%d refund rows; want 1 per payment", len(state.refunds))
	}
}

func TestRefundEligibility(t *testing.T) {
	state := newFakeState()
	bld := seedBuilding(state)
	svc, _ := newTestRefundService(state, &fakeGateway{})

	// Booking still live.
	live := seedBooking(state, bld.ID, 2, domain.BookingApproved, 10, "09:00", "11:00")
	state.addPayment(&models.Payment{BookingID: live.ID, AmountCents: 100, Status: domain.PaymentPaid})
	if _, err := svc.Request(context.Background(), live.ID, 2, false, 0, ""); !errors.Is(err, domain.ErrRefundNotEligible) {
		t.Errorf("live booking got %v; want not eligible", err)
	}

	// Booking cancelled but payment never settled.
	unpaid := seedBooking(state, bld.ID, 2, domain.BookingCancelled, 11, "09:00", "11:00")
	state.addPayment(&models.Payment{BookingID: unpaid.ID, AmountCents: 100, Status: domain.PaymentPending})
	if _, err := svc.Request(context.Background(), unpaid.ID, 2, false, 0, ""); !errors.Is(err, domain.ErrRefundNotEligible) {
		t.Errorf("unpaid booking got %v; want not eligible", err)
	}
}

func TestRefundAmountBounds(t *testing.T) {
	state := newFakeState()
	b, p := rejectedPaidBooking(state)
	svc, _ := newTestRefundService(state, &fakeGateway{})

	_, err := svc.Request(context.Background(), b.ID, 2, false, p.AmountCents+1, "")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("over-amount got %T (%v); want ValidationError", err, err)
	}

	refund, err := svc.Request(context.Background(), b.ID, 2, false, p.AmountCents/2, "partial")
	if err != nil {
		t.Fatal(err)
	}
	if refund.AmountCents != p.AmountCents/2 {
		t.Errorf("partial amount = %d", refund.AmountCents)
	}
}

func TestRefundOwnership(t *testing.T) {
	state := newFakeState()
	b, _ := rejectedPaidBooking(state)
	svc, _ := newTestRefundService(state, &fakeGateway{})

	if _, err := svc.Request(context.Background(), b.ID, 99, false, 0, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign request got %v; want not found", err)
	}
	if _, err := svc.Request(context.Background(), b.ID, 99, true, 0, ""); err != nil {
		t.Errorf("admin request: %v", err)
	}
}

func TestRefundBoundedRetriesThenFailed(t *testing.T) {
	state := newFakeState()
	b, _ := rejectedPaidBooking(state)
	gw := &fakeGateway{refundFails: 10} // beyond the retry budget
	svc, rec := newTestRefundService(state, gw)

	refund, err := svc.Request(context.Background(), b.ID, 2, false, 0, "")
	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("got %T (%v); want GatewayError", err, err)
	}
	if gw.refundCalls != 3 {
		t.Errorf("gateway called %d times; want exactly the retry budget", gw.refundCalls)
	}
	if refund.Status != domain.RefundFailed {
		t.Errorf("status = %s; want FAILED for manual intervention", refund.Status)
	}
	if b.Status != domain.BookingRejected {
		t.Error("booking status must not roll back on refund failure")
	}
	want := []string{domain.EventRefundRequested, domain.EventRefundFailed}
	if got := rec.types(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v; want %v", got, want)
	}
}

func TestRefundRetrySucceedsMidBudget(t *testing.T) {
	state := newFakeState()
	b, _ := rejectedPaidBooking(state)
	gw := &fakeGateway{refundFails: 2}
	svc, _ := newTestRefundService(state, gw)

	refund, err := svc.Request(context.Background(), b.ID, 2, false, 0, "")
	if err != nil {
		t.Fatalf("third attempt should have landed: %v", err)
	}
	if refund.Status != domain.RefundProcessing || gw.refundCalls != 3 {
		t.Errorf("status %s after %d calls", refund.Status, gw.refundCalls)
	}
}

func TestResolveCompletedStopsPayment(t *testing.T) {
	state := newFakeState()
	b, p := rejectedPaidBooking(state)
	svc, rec := newTestRefundService(state, &fakeGateway{})

	refund, err := svc.Request(context.Background(), b.ID, 2, false, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Resolve(refund.ExternalRef, domain.RefundCompleted); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if refund.Status != domain.RefundCompleted || refund.RefundDate == nil {
		t.Errorf("refund = %s, date %v", refund.Status, refund.RefundDate)
	}
	if p.Status != domain.PaymentStopped {
		t.Errorf("payment = %s; want STOPPED", p.Status)
	}

	// Terminal refunds ignore replays and contradictions.
	if err := svc.Resolve(refund.ExternalRef, domain.RefundFailed); err != nil {
		t.Fatal(err)
	}
	if refund.Status != domain.RefundCompleted {
		t.Error("replayed callback flipped a terminal refund")
	}
	var completions int
	for _, e := range rec.events {
		if e.Type == domain.EventRefundCompleted {
			completions++
		}
	}
	if completions != 1 {
		t.Errorf("%d completion events; want 1", completions)
	}
}

func TestResolveUnknownRef(t *testing.T) {
	state := newFakeState()
	svc, _ := newTestRefundService(state, &fakeGateway{})
	if err := svc.Resolve("ghost", domain.RefundCompleted); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v; want not found", err)
	}
}

func TestGetForBooking(t *testing.T) {
	state := newFakeState()
	b, _ := rejectedPaidBooking(state)
	svc, _ := newTestRefundService(state, &fakeGateway{})

	if _, err := svc.GetForBooking(b.ID, 2, false); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no refund yet, got %v", err)
	}
	created, err := svc.Request(context.Background(), b.ID, 2, false, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetForBooking(b.ID, 2, false)
	if err != nil || got.ID != created.ID {
		t.Errorf("got %v, %v", got, err)
	}
	if _, err := svc.GetForBooking(b.ID, 99, false); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("foreign read got %v", err)
	}
}
