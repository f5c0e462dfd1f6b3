package reminders

import (
	"fmt"
	"time"

	"github.com/tomasvera/debtwise/internal/models"
)

// Days before a debt's due day during which an upcoming reminder fires.
const upcomingWindowDays = 3

// Last day of month on which the start-of-month check-in still fires.
const checkInThroughDay = 3

// checkInID is the fixed identity of the monthly check-in reminder.
const checkInID = "monthly-checkin"

// Evaluate derives the active reminders for the snapshot on the given
// date. It is a pure function: the same (state, date) pair always yields
// the same items with the same ids, so repeated recomputation never
// churns identities. Inputs are never mutated.
//
// Known limitations, kept deliberately: the upcoming-payment window does
// not wrap across a month boundary (a debt due on the 2nd is not flagged
// on the 30th), and bi-weekly expenses match two fixed day-of-month
// anchors rather than a rolling 14-day cadence.
func Evaluate(state models.FinancialState, date time.Time) []models.ReminderItem {
	day := ContextFor(date)
	items := []models.ReminderItem{}

	if day.DayOfMonth <= checkInThroughDay {
		items = append(items, models.ReminderItem{
			ID:      checkInID,
			Kind:    models.ReminderInfo,
			Title:   "Start of month",
			Message: "A new month has started. Review your debts and upcoming payments.",
		})
	}

	for _, d := range state.Debts {
		if d.CurrentAmount <= 0 || d.DueDay == nil {
			continue
		}
		dueDay := *d.DueDay
		switch {
		case dueDay == day.DayOfMonth:
			items = append(items, models.ReminderItem{
				ID:      "debt-due-" + d.ID,
				Kind:    models.ReminderWarning,
				Title:   "Payment due today",
				Message: fmt.Sprintf("The payment for %s ($%.2f minimum) is due today.", d.Name, d.MinPayment),
			})
		case dueDay > day.DayOfMonth && dueDay <= day.DayOfMonth+upcomingWindowDays:
			n := dueDay - day.DayOfMonth
			items = append(items, models.ReminderItem{
				ID:      "debt-upcoming-" + d.ID,
				Kind:    models.ReminderInfo,
				Title:   "Payment coming up",
				Message: fmt.Sprintf("The payment for %s is due in %d %s.", d.Name, n, plural(n, "day")),
			})
		}
	}

	for _, e := range state.Expenses {
		if expenseDueToday(e, day) {
			items = append(items, models.ReminderItem{
				ID:      "expense-" + e.ID,
				Kind:    models.ReminderInfo,
				Title:   "Fixed expense due",
				Message: fmt.Sprintf("%s ($%.2f) is due today.", e.Name, e.Amount),
			})
		}
	}

	return items
}

func expenseDueToday(e models.Expense, day DayContext) bool {
	switch e.Cadence() {
	case models.FrequencyWeekly:
		return e.DueDay == day.DayOfWeek
	case models.FrequencyBiweekly:
		return e.DueDay == day.DayOfMonth || e.DueDay == day.DayOfMonth+15
	default:
		return e.DueDay == day.DayOfMonth
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
