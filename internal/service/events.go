package service

import "time"

// TransitionEvent is emitted once per committed status change. Subscribers
// (notification dispatch, websocket fan-out) react to events instead of the
// client re-deriving state by polling.
type TransitionEvent struct {
	Type       string    `json:"type"`
	BookingID  uint      `json:"booking_id"`
	BuildingID uint      `json:"building_id"`
	BorrowerID uint      `json:"borrower_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	At         time.Time `json:"at"`
}

// TransitionListener receives events after the transition commits. Listener
// failures never roll the transition back.
type TransitionListener interface {
	BookingTransition(evt TransitionEvent)
}
