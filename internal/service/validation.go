package service

import (
	"strings"
	"time"

	"venuely/config"
	"venuely/internal/domain"
	"venuely/pkg/schedule"
)

// BookingRequest is the raw submission before normalization.
type BookingRequest struct {
	BuildingID    uint
	ActivityName  string
	StartDate     time.Time
	EndDate       *time.Time // nil means single-day booking
	StartTime     string     // HH:MM
	EndTime       string
	AttachmentURL string
}

// ValidatedRequest is a normalized submission: trimmed name, end date
// defaulted, times resolved into a Slot.
type ValidatedRequest struct {
	BuildingID    uint
	ActivityName  string
	Slot          schedule.Slot
	AttachmentURL string
}

// Validator rejects malformed reservation requests before any state is
// touched. It accumulates one message per offending field.
type Validator struct {
	minDuration time.Duration
	maxDuration time.Duration
	now         func() time.Time
}

func NewValidator(cfg config.BookingConfig) *Validator {
	return &Validator{
		minDuration: cfg.MinDuration,
		maxDuration: cfg.MaxDuration,
		now:         time.Now,
	}
}

func (v *Validator) Validate(req BookingRequest) (*ValidatedRequest, error) {
	verr := domain.NewValidationError()

	if req.BuildingID == 0 {
		verr.Add("buildingId", "building is required")
	}

	name := strings.TrimSpace(req.ActivityName)
	if len(name) < 3 || len(name) > 200 {
		verr.Add("activityName", "must be between 3 and 200 characters")
	}

	today := schedule.Midnight(v.now().UTC())
	startDate := schedule.Midnight(req.StartDate)
	if startDate.Before(today) {
		verr.Add("startDate", "must not be in the past")
	}

	endDate := startDate
	if req.EndDate != nil {
		endDate = schedule.Midnight(*req.EndDate)
		if endDate.Before(startDate) {
			verr.Add("endDate", "must not be before start date")
		}
	}

	startMin, startErr := schedule.ParseClock(req.StartTime)
	if startErr != nil {
		verr.Add("startTime", "must be a valid time of day (HH:MM)")
	}
	endMin, endErr := schedule.ParseClock(req.EndTime)
	if endErr != nil {
		verr.Add("endTime", "must be a valid time of day (HH:MM)")
	}
	if startErr == nil && endErr == nil {
		if endMin <= startMin {
			verr.Add("endTime", "must be after start time")
		} else {
			// The same daily window applies to every date in range, so the
			// bound is per day.
			d := time.Duration(endMin-startMin) * time.Minute
			if d < v.minDuration || d > v.maxDuration {
				verr.Add("endTime", "daily duration must be between 30 minutes and 14 hours")
			}
		}
	}

	if strings.TrimSpace(req.AttachmentURL) == "" {
		verr.Add("attachment", "permit document is required")
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &ValidatedRequest{
		BuildingID:   req.BuildingID,
		ActivityName: name,
		Slot: schedule.Slot{
			StartDate: startDate,
			EndDate:   endDate,
			StartMin:  startMin,
			EndMin:    endMin,
		},
		AttachmentURL: req.AttachmentURL,
	}, nil
}
