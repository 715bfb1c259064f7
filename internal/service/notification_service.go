package service

import (
	"encoding/json"
	"fmt"

	"venuely/internal/domain"
	"venuely/internal/models"
)

type NotificationStore interface {
	Create(n *models.Notification) error
	ListByUserID(userID uint, limit, offset int) ([]models.Notification, error)
	MarkRead(id, userID uint) error
}

type AdminLister interface {
	ListAdmins() ([]models.User, error)
}

// Pusher delivers a payload to a user's live connections; the websocket hub
// implements it. Delivery is fire-and-forget.
type Pusher interface {
	PushToUser(userID uint, payload interface{})
}

// NotificationService persists a notification per transition event and
// pushes it to connected clients. It subscribes to both the booking and
// refund services.
type NotificationService struct {
	repo   NotificationStore
	admins AdminLister
	pusher Pusher
}

func NewNotificationService(repo NotificationStore, admins AdminLister, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, admins: admins, pusher: pusher}
}

// BookingTransition implements TransitionListener.
func (s *NotificationService) BookingTransition(evt TransitionEvent) {
	title, body := describe(evt)
	s.notify(evt.BorrowerID, evt, title, body)
	// New submissions need admin review; fan out to every admin.
	if evt.Type == domain.EventBookingSubmitted || evt.Type == domain.EventPaymentConfirmed {
		if s.admins == nil {
			return
		}
		adminUsers, err := s.admins.ListAdmins()
		if err != nil {
			return
		}
		for _, a := range adminUsers {
			s.notify(a.ID, evt, title, body)
		}
	}
}

func (s *NotificationService) notify(userID uint, evt TransitionEvent, title, body string) {
	data, _ := json.Marshal(evt)
	_ = s.repo.Create(&models.Notification{
		UserID: userID,
		Type:   evt.Type,
		Title:  title,
		Body:   body,
		Data:   string(data),
	})
	if s.pusher != nil {
		s.pusher.PushToUser(userID, map[string]interface{}{"type": evt.Type, "event": evt})
	}
}

func (s *NotificationService) List(userID uint, limit, offset int) ([]models.Notification, error) {
	return s.repo.ListByUserID(userID, limit, offset)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	return s.repo.MarkRead(id, userID)
}

func describe(evt TransitionEvent) (title, body string) {
	switch evt.Type {
	case domain.EventBookingSubmitted:
		return "Booking submitted", fmt.Sprintf("Booking #%d is awaiting payment.", evt.BookingID)
	case domain.EventPaymentConfirmed:
		return "Payment confirmed", fmt.Sprintf("Booking #%d is now under review.", evt.BookingID)
	case domain.EventBookingApproved:
		return "Booking approved", fmt.Sprintf("Booking #%d has been approved.", evt.BookingID)
	case domain.EventBookingRejected:
		if evt.Reason != "" {
			return "Booking rejected", fmt.Sprintf("Booking #%d was rejected: %s", evt.BookingID, evt.Reason)
		}
		return "Booking rejected", fmt.Sprintf("Booking #%d was rejected.", evt.BookingID)
	case domain.EventBookingCancelled:
		return "Booking cancelled", fmt.Sprintf("Booking #%d was cancelled.", evt.BookingID)
	case domain.EventBookingCompleted:
		return "Booking completed", fmt.Sprintf("Booking #%d has completed.", evt.BookingID)
	case domain.EventRefundRequested:
		return "Refund requested", fmt.Sprintf("A refund for booking #%d was requested.", evt.BookingID)
	case domain.EventRefundCompleted:
		return "Refund completed", fmt.Sprintf("The refund for booking #%d has been paid out.", evt.BookingID)
	case domain.EventRefundFailed:
		return "Refund failed", fmt.Sprintf("The refund for booking #%d failed; an administrator will follow up.", evt.BookingID)
	default:
		return evt.Type, fmt.Sprintf("Booking #%d changed state.", evt.BookingID)
	}
}
