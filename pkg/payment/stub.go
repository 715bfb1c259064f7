package payment

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// StubProvider is a no-op provider for development; swap for the real
// gateway via config.
type StubProvider struct{}

func (s *StubProvider) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	ref := req.Reference
	if ref == "" {
		ref = fmt.Sprintf("stub_%d_%d", time.Now().UnixNano(), req.BookingID)
	}
	return &PaymentResponse{
		Reference:   ref,
		Status:      "PENDING",
		CheckoutURL: "https://pay.example.invalid/" + ref,
		ExpiresAt:   time.Now().Add(req.ExpiresIn),
	}, nil
}

func (s *StubProvider) CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	return &RefundResponse{
		RefundID: fmt.Sprintf("stubref_%d", time.Now().UnixNano()),
		Status:   "PROCESSING",
	}, nil
}

func (s *StubProvider) VerifyPayment(ctx context.Context, reference string) (bool, error) {
	return strings.HasPrefix(reference, "stub_"), nil
}
