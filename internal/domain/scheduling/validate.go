package scheduling

import "time"

// FutureOrToday reports whether date is today or later relative to now.
// Whole-day comparison: any time earlier today still counts.
func FutureOrToday(date Date, now time.Time) bool {
	return !date.Before(DateOf(now).Time)
}

// WithinBusinessHours reports whether t falls inside the business-hours
// bounds, inclusive at both ends.
func WithinBusinessHours(t TimeOfDay, hours BusinessHours) bool {
	return hours.Open <= t && t <= hours.Close
}

// PastForToday reports whether the slot has already passed. Only slots on
// today's date can be in the past; earlier wall-clock times on future dates
// are fine.
func PastForToday(date Date, t TimeOfDay, now time.Time) bool {
	if !date.Equal(DateOf(now)) {
		return false
	}
	return t < TimeOfDayOf(now)
}
