package service

import (
	"errors"
	"testing"

	"venuely/internal/domain"
)

func TestCanTransition(t *testing.T) {
	allowed := [][2]string{
		{domain.BookingPending, domain.BookingProcessing},
		{domain.BookingPending, domain.BookingCancelled},
		{domain.BookingProcessing, domain.BookingApproved},
		{domain.BookingProcessing, domain.BookingRejected},
		{domain.BookingProcessing, domain.BookingCancelled},
		{domain.BookingApproved, domain.BookingCompleted},
		{domain.BookingApproved, domain.BookingCancelled},
	}
	for _, c := range allowed {
		if !CanTransition(c[0], c[1]) {
			t.Errorf("%s -> %s should be legal", c[0], c[1])
		}
	}

	denied := [][2]string{
		{domain.BookingPending, domain.BookingApproved}, // approval needs payment first
		{domain.BookingPending, domain.BookingRejected},
		{domain.BookingApproved, domain.BookingRejected},
		{domain.BookingRejected, domain.BookingApproved},
		{domain.BookingCancelled, domain.BookingPending},
		{domain.BookingCompleted, domain.BookingCancelled},
		{domain.BookingApproved, domain.BookingProcessing},
	}
	for _, c := range denied {
		if CanTransition(c[0], c[1]) {
			t.Errorf("%s -> %s should be illegal", c[0], c[1])
		}
	}
}

func TestCheckTransitionError(t *testing.T) {
	err := CheckTransition(domain.BookingRejected, domain.BookingApproved)
	var terr *domain.StateTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("got %T; want StateTransitionError", err)
	}
	if terr.From != domain.BookingRejected || terr.To != domain.BookingApproved {
		t.Errorf("error carries %s -> %s", terr.From, terr.To)
	}
	if err := CheckTransition(domain.BookingPending, domain.BookingProcessing); err != nil {
		t.Errorf("legal move returned %v", err)
	}
}
