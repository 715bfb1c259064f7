package service

import (
	"errors"
	"testing"
	"time"

	"venuely/internal/domain"
	"venuely/internal/models"
)

func newTestAvailabilityService(state *fakeState) *AvailabilityService {
	return NewAvailabilityService(&fakeBookingStore{state}, &fakeBuildingStore{state})
}

func TestMonthCalendarStatuses(t *testing.T) {
	state := newFakeState()
	bld := seedBuilding(state)
	seedBooking(state, bld.ID, 2, domain.BookingApproved, 10, "09:00", "11:00")
	seedBooking(state, bld.ID, 3, domain.BookingPending, 15, "09:00", "11:00")
	seedBooking(state, bld.ID, 4, domain.BookingCancelled, 20, "09:00", "11:00")
	// Multi-day PROCESSING hold.
	state.addBooking(&models.Booking{
		BuildingID: bld.ID,
		BorrowerID: 5,
		StartDate:  time.Date(2026, 4, 25, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     domain.BookingProcessing,
	})
	svc := newTestAvailabilityService(state)

	days, err := svc.MonthCalendar(bld.ID, 2026, time.April)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 30 {
		t.Fatalf("April has %d days in the calendar", len(days))
	}
	byDate := make(map[string]string, len(days))
	for _, d := range days {
		byDate[d.Date] = d.Status
	}
	cases := map[string]string{
		"2026-04-10": DayBooked,
		"2026-04-15": DayPending,
		"2026-04-20": DayAvailable, // cancelled bookings free the day
		"2026-04-25": DayPending,
		"2026-04-26": DayPending,
		"2026-04-27": DayPending,
		"2026-04-01": DayAvailable,
	}
	for date, want := range cases {
		if got := byDate[date]; got != want {
			t.Errorf("%s = %s; want %s", date, got, want)
		}
	}
}

func TestMonthCalendarBookedOutranksPending(t *testing.T) {
	state := newFakeState()
	bld := seedBuilding(state)
	seedBooking(state, bld.ID, 2, domain.BookingApproved, 10, "09:00", "11:00")
	seedBooking(state, bld.ID, 3, domain.BookingPending, 10, "13:00", "15:00")
	svc := newTestAvailabilityService(state)

	days, err := svc.MonthCalendar(bld.ID, 2026, time.April)
	if err != nil {
		t.Fatal(err)
	}
	for _, d := range days {
		if d.Date == "2026-04-10" && d.Status != DayBooked {
			t.Errorf("mixed day = %s; want booked", d.Status)
		}
	}
}

func TestMonthCalendarUnknownBuilding(t *testing.T) {
	svc := newTestAvailabilityService(newFakeState())
	if _, err := svc.MonthCalendar(42, 2026, time.April); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v; want not found", err)
	}
}

func TestSearchAvailable(t *testing.T) {
	state := newFakeState()
	a := state.addBuilding(&models.Building{Name: "Hall A"})
	b := state.addBuilding(&models.Building{Name: "Hall B"})
	c := state.addBuilding(&models.Building{Name: "Hall C"})
	seedBooking(state, a.ID, 2, domain.BookingApproved, 10, "09:00", "11:00")
	seedBooking(state, b.ID, 2, domain.BookingApproved, 10, "13:00", "15:00")
	seedBooking(state, c.ID, 2, domain.BookingRejected, 10, "09:00", "11:00")
	svc := newTestAvailabilityService(state)

	free, err := svc.SearchAvailable(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), "10:00", "12:00")
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(free))
	for i, bl := range free {
		names[i] = bl.Name
	}
	if len(free) != 2 || names[0] != "Hall B" || names[1] != "Hall C" {
		t.Errorf("free = %v; want Hall B and Hall C", names)
	}

	// The window adjacent to Hall A's booking frees it too.
	free, err = svc.SearchAvailable(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC), "11:00", "13:00")
	if err != nil {
		t.Fatal(err)
	}
	if len(free) != 3 {
		t.Errorf("adjacent window frees all halls, got %d", len(free))
	}
}

func TestSearchAvailableBadWindow(t *testing.T) {
	svc := newTestAvailabilityService(newFakeState())
	var verr *domain.ValidationError
	if _, err := svc.SearchAvailable(time.Now(), "nope", "12:00"); !errors.As(err, &verr) {
		t.Errorf("bad clock got %v", err)
	}
	if _, err := svc.SearchAvailable(time.Now(), "12:00", "10:00"); !errors.As(err, &verr) {
		t.Errorf("inverted window got %v", err)
	}
}
