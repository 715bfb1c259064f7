// Package conflict holds the single source of truth for slot occupation.
// The booking write path, the admin approval re-check and both availability
// query modes all answer "does this slot collide" through FindConflicts;
// duplicating the comparison anywhere else reintroduces the classic
// show-available-then-double-book bug.
package conflict

import (
	"venuely/internal/domain"
	"venuely/internal/models"
	"venuely/pkg/schedule"
)

// FindConflicts returns the existing bookings whose occupation collides with
// the candidate slot. Only bookings whose status is in holds count; REJECTED
// and CANCELLED rows never hold a slot. Bookings with unparseable stored
// times are treated as conflicting so corrupted rows fail closed.
func FindConflicts(candidate schedule.Slot, existing []models.Booking, holds domain.StatusSet) []models.Booking {
	var out []models.Booking
	for i := range existing {
		b := existing[i]
		if !holds.Contains(b.Status) {
			continue
		}
		slot, err := b.Slot()
		if err != nil {
			out = append(out, b)
			continue
		}
		if candidate.Overlaps(slot) {
			out = append(out, b)
		}
	}
	return out
}

// HasConflict is FindConflicts reduced to a boolean for callers that do not
// need the colliding rows.
func HasConflict(candidate schedule.Slot, existing []models.Booking, holds domain.StatusSet) bool {
	for i := range existing {
		b := existing[i]
		if !holds.Contains(b.Status) {
			continue
		}
		slot, err := b.Slot()
		if err != nil {
			return true
		}
		if candidate.Overlaps(slot) {
			return true
		}
	}
	return false
}
