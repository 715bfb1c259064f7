package service

import (
	"time"

	"venuely/internal/conflict"
	"venuely/internal/domain"
	"venuely/internal/models"
	"venuely/pkg/schedule"
)

// Day statuses exposed by the per-building calendar.
const (
	DayAvailable = "available"
	DayPending   = "pending"
	DayBooked    = "booked"
)

type DayStatus struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Status string `json:"status"`
}

// BookingLister is the read-path feed for availability queries.
type BookingLister interface {
	ListForBuildingRange(buildingID uint, from, to time.Time, holds domain.StatusSet) ([]models.Booking, error)
}

// AvailabilityService answers calendar and search queries. Both modes share
// the conflict package with the write path, so "shown as available" and
// "accepted for booking" can never disagree.
type AvailabilityService struct {
	bookings  BookingLister
	buildings BuildingStore
	holds     domain.StatusSet
}

func NewAvailabilityService(bookings BookingLister, buildings BuildingStore) *AvailabilityService {
	return &AvailabilityService{
		bookings:  bookings,
		buildings: buildings,
		holds:     domain.ActiveHold(),
	}
}

// MonthCalendar returns one status per date of the month: booked when an
// APPROVED or COMPLETED booking touches the date, pending when only
// PENDING/PROCESSING bookings do, available otherwise.
func (s *AvailabilityService) MonthCalendar(buildingID uint, year int, month time.Month) ([]DayStatus, error) {
	if _, err := s.buildings.GetByID(buildingID); err != nil {
		return nil, err
	}
	first, last := schedule.MonthBounds(year, month)
	holds, err := s.bookings.ListForBuildingRange(buildingID, first, last, s.holds)
	if err != nil {
		return nil, err
	}
	var out []DayStatus
	schedule.Days(first, last, func(d time.Time) {
		status := DayAvailable
		for i := range holds {
			b := &holds[i]
			if !schedule.DatesOverlap(schedule.Midnight(b.StartDate), schedule.Midnight(b.EndDate), d, d) {
				continue
			}
			switch b.Status {
			case domain.BookingApproved, domain.BookingCompleted:
				status = DayBooked
			case domain.BookingPending, domain.BookingProcessing:
				if status == DayAvailable {
					status = DayPending
				}
			}
		}
		out = append(out, DayStatus{Date: d.Format(schedule.DateLayout), Status: status})
	})
	return out, nil
}

// SearchAvailable returns every building with zero conflicting active-hold
// bookings for the exact date and time window.
func (s *AvailabilityService) SearchAvailable(date time.Time, startTime, endTime string) ([]models.Building, error) {
	slot, err := schedule.NewSlot(date, date, startTime, endTime)
	if err != nil {
		verr := domain.NewValidationError()
		verr.Add("time", "must be a valid HH:MM window")
		return nil, verr
	}
	if slot.EndMin <= slot.StartMin {
		verr := domain.NewValidationError()
		verr.Add("endTime", "must be after start time")
		return nil, verr
	}
	buildings, err := s.buildings.All()
	if err != nil {
		return nil, err
	}
	var free []models.Building
	for _, b := range buildings {
		existing, err := s.bookings.ListForBuildingRange(b.ID, slot.StartDate, slot.EndDate, s.holds)
		if err != nil {
			return nil, err
		}
		if !conflict.HasConflict(slot, existing, s.holds) {
			free = append(free, b)
		}
	}
	return free, nil
}
