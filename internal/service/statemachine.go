package service

import "venuely/internal/domain"

// bookingTransitions is the full set of legal status moves. Anything not
// listed fails with a StateTransitionError and leaves state untouched.
var bookingTransitions = map[string]map[string]struct{}{
	domain.BookingPending: {
		domain.BookingProcessing: {}, // payment confirmed
		domain.BookingCancelled:  {}, // borrower or admin, before start
	},
	domain.BookingProcessing: {
		domain.BookingApproved:  {}, // admin action, conflict re-checked first
		domain.BookingRejected:  {}, // admin action, with reason
		domain.BookingCancelled: {},
	},
	domain.BookingApproved: {
		domain.BookingCompleted: {}, // end datetime passed
		domain.BookingCancelled: {}, // admin override, before start
	},
}

// CanTransition reports whether from -> to is a legal booking move.
func CanTransition(from, to string) bool {
	next, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// CheckTransition returns a StateTransitionError for illegal moves.
func CheckTransition(from, to string) error {
	if !CanTransition(from, to) {
		return &domain.StateTransitionError{From: from, To: to}
	}
	return nil
}
