package domain

const (
	RoleBorrower = "BORROWER"
	RoleAdmin    = "ADMIN"
)

// Booking statuses.
const (
	BookingPending    = "PENDING"
	BookingProcessing = "PROCESSING"
	BookingApproved   = "APPROVED"
	BookingRejected   = "REJECTED"
	BookingCompleted  = "COMPLETED"
	BookingCancelled  = "CANCELLED"
)

// Payment statuses.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
	PaymentExpired = "EXPIRED"
	PaymentStopped = "STOPPED"
)

// Refund statuses.
const (
	RefundNone       = "NO_REFUND"
	RefundPending    = "PENDING"
	RefundProcessing = "PROCESSING"
	RefundCompleted  = "COMPLETED"
	RefundFailed     = "FAILED"
)

// Notification / transition event types.
const (
	EventBookingSubmitted = "BOOKING_SUBMITTED"
	EventPaymentConfirmed = "PAYMENT_CONFIRMED"
	EventBookingApproved  = "BOOKING_APPROVED"
	EventBookingRejected  = "BOOKING_REJECTED"
	EventBookingCancelled = "BOOKING_CANCELLED"
	EventBookingCompleted = "BOOKING_COMPLETED"
	EventRefundRequested  = "REFUND_REQUESTED"
	EventRefundCompleted  = "REFUND_COMPLETED"
	EventRefundFailed     = "REFUND_FAILED"
)

// StatusSet is a configurable set of booking statuses. The conflict
// detector takes one rather than hard-coding which statuses occupy a slot.
type StatusSet map[string]struct{}

func NewStatusSet(statuses ...string) StatusSet {
	s := make(StatusSet, len(statuses))
	for _, st := range statuses {
		s[st] = struct{}{}
	}
	return s
}

func (s StatusSet) Contains(status string) bool {
	_, ok := s[status]
	return ok
}

func (s StatusSet) Slice() []string {
	out := make([]string, 0, len(s))
	for st := range s {
		out = append(out, st)
	}
	return out
}

// ActiveHold returns the statuses that count as occupying a time slot.
// PENDING and PROCESSING act as soft locks so two in-flight submissions
// cannot both reach payment for the same slot.
func ActiveHold() StatusSet {
	return NewStatusSet(BookingPending, BookingProcessing, BookingApproved, BookingCompleted)
}
