// Package reminders derives the active set of recurring-obligation
// reminders from a financial snapshot and a calendar date.
package reminders

import "time"

// DayContext carries the calendar facts reminder rules match against.
// Keeping the calendar arithmetic here isolates the matching rules from
// time.Time handling.
type DayContext struct {
	DayOfMonth  int // 1-31
	DayOfWeek   int // 0=Sunday .. 6=Saturday
	DaysInMonth int
}

// ContextFor extracts the day context for the given date
func ContextFor(t time.Time) DayContext {
	return DayContext{
		DayOfMonth:  t.Day(),
		DayOfWeek:   int(t.Weekday()),
		DaysInMonth: daysInMonth(t),
	}
}

func daysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, 1, -1).Day()
}
