package payment

import (
	"context"
	"time"
)

type PaymentRequest struct {
	BookingID   uint
	AmountCents int64
	Currency    string
	Reference   string // our external identity for the payment, echoed in the callback
	Description string
	ExpiresIn   time.Duration
	CallbackURL string
}

type PaymentResponse struct {
	Reference   string
	Status      string
	CheckoutURL string
	ExpiresAt   time.Time
}

type RefundRequest struct {
	PaymentReference string
	AmountCents      int64
	Reason           string
	CallbackURL      string
}

type RefundResponse struct {
	RefundID string
	Status   string
}

// Provider is the payment gateway boundary. Calls are synchronous request
// initiation only; confirmation of both payments and refunds arrives later
// on the webhook endpoints.
type Provider interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error)
	CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error)
	VerifyPayment(ctx context.Context, reference string) (bool, error)
}
