package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"venuely/config"
	"venuely/internal/domain"
)

func testValidator() *Validator {
	v := NewValidator(config.BookingConfig{
		MinDuration: 30 * time.Minute,
		MaxDuration: 14 * time.Hour,
	})
	v.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }
	return v
}

func validRequest() BookingRequest {
	return BookingRequest{
		BuildingID:    1,
		ActivityName:  "Community Workshop",
		StartDate:     time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:00",
		EndTime:       "12:00",
		AttachmentURL: "https://cdn.example.com/permit.pdf",
	}
}

func fieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T (%v); want ValidationError", err, err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Fatalf("no message for field %q in %v", field, verr.Fields)
	}
}

func TestValidateAccepts(t *testing.T) {
	v := testValidator()
	got, err := v.Validate(validRequest())
	if err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if got.Slot.StartMin != 540 || got.Slot.EndMin != 720 {
		t.Errorf("slot window = %d..%d; want 540..720", got.Slot.StartMin, got.Slot.EndMin)
	}
	if !got.Slot.EndDate.Equal(got.Slot.StartDate) {
		t.Error("missing end date must default to start date")
	}
}

func TestValidateMissingBuilding(t *testing.T) {
	req := validRequest()
	req.BuildingID = 0
	_, err := testValidator().Validate(req)
	fieldError(t, err, "buildingId")
}

func TestValidateActivityName(t *testing.T) {
	req := validRequest()
	req.ActivityName = "  ab  "
	_, err := testValidator().Validate(req)
	fieldError(t, err, "activityName")

	req.ActivityName = strings.Repeat("x", 201)
	_, err = testValidator().Validate(req)
	fieldError(t, err, "activityName")

	req.ActivityName = "  Board Meeting  "
	got, err := testValidator().Validate(req)
	if err != nil {
		t.Fatal(err)
	}
	if got.ActivityName != "Board Meeting" {
		t.Errorf("name not trimmed: %q", got.ActivityName)
	}
}

func TestValidatePastStartDate(t *testing.T) {
	req := validRequest()
	req.StartDate = time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := testValidator().Validate(req)
	fieldError(t, err, "startDate")

	// Same-day booking is not "in the past".
	req.StartDate = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if _, err := testValidator().Validate(req); err != nil {
		t.Fatalf("today rejected: %v", err)
	}
}

func TestValidateEndBeforeStartDate(t *testing.T) {
	req := validRequest()
	end := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	req.EndDate = &end
	_, err := testValidator().Validate(req)
	fieldError(t, err, "endDate")
}

func TestValidateTimeWindow(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
	}{
		{"unparseable start", "9am", "12:00"},
		{"unparseable end", "09:00", "noon"},
		{"end equals start", "09:00", "09:00"},
		{"end before start", "12:00", "09:00"},
		{"too short", "09:00", "09:20"},
		{"too long", "08:00", "22:30"},
	}
	for _, c := range cases {
		req := validRequest()
		req.StartTime, req.EndTime = c.start, c.end
		if _, err := testValidator().Validate(req); err == nil {
			t.Errorf("%s: accepted %s-%s", c.name, c.start, c.end)
		}
	}

	// Boundary durations are inclusive.
	for _, c := range [][2]string{{"09:00", "09:30"}, {"08:00", "22:00"}} {
		req := validRequest()
		req.StartTime, req.EndTime = c[0], c[1]
		if _, err := testValidator().Validate(req); err != nil {
			t.Errorf("boundary window %s-%s rejected: %v", c[0], c[1], err)
		}
	}
}

func TestValidateMissingAttachment(t *testing.T) {
	req := validRequest()
	req.AttachmentURL = "   "
	_, err := testValidator().Validate(req)
	fieldError(t, err, "attachment")
}

func TestValidateCollectsAllFields(t *testing.T) {
	_, err := testValidator().Validate(BookingRequest{})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T; want ValidationError", err)
	}
	for _, f := range []string{"buildingId", "activityName", "startTime", "endTime", "attachment"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("missing field %q in %v", f, verr.Fields)
		}
	}
}
