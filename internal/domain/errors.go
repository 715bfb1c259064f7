package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a booking, building or payment does not exist.
var ErrNotFound = errors.New("not found")

// ErrRefundNotEligible guards refund creation: the booking must be REJECTED
// or CANCELLED and its payment PAID.
var ErrRefundNotEligible = errors.New("refund requires a rejected or cancelled booking with a paid payment")

// ErrRefundInProgress blocks local unwinding once a refund has reached the
// gateway; callers may only poll for its terminal state.
var ErrRefundInProgress = errors.New("refund is processing at the gateway")

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, msg string) { e.Fields[field] = msg }
func (e *ValidationError) HasErrors() bool       { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, m := range e.Fields {
		parts = append(parts, f+": "+m)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError means the requested slot is already held by other bookings.
type ConflictError struct {
	BuildingID uint
	BookingIDs []uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("building %d already booked for the requested slot", e.BuildingID)
}

// StateTransitionError reports an illegal booking status transition.
type StateTransitionError struct {
	From string
	To   string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

// GatewayError wraps a failed payment gateway call. Refund calls are retried
// a bounded number of times before the refund is marked FAILED.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return "gateway " + e.Op + ": " + e.Err.Error() }
func (e *GatewayError) Unwrap() error { return e.Err }
