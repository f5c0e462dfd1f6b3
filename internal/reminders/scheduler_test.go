package reminders

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomasvera/debtwise/internal/models"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dueDay(d int) *int { return &d }

func itemIDs(items []models.ReminderItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func findItem(items []models.ReminderItem, id string) (models.ReminderItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return models.ReminderItem{}, false
}

func TestEvaluate_MonthlyCheckIn(t *testing.T) {
	state := models.FinancialState{}
	for _, date := range []string{"2025-07-01", "2025-07-02", "2025-07-03"} {
		items := Evaluate(state, day(t, date))
		item, ok := findItem(items, "monthly-checkin")
		if !ok {
			t.Errorf("%s: expected check-in reminder", date)
			continue
		}
		if item.Kind != models.ReminderInfo {
			t.Errorf("%s: check-in should be info, got %s", date, item.Kind)
		}
	}

	items := Evaluate(state, day(t, "2025-07-04"))
	if _, ok := findItem(items, "monthly-checkin"); ok {
		t.Error("check-in should not fire after day 3")
	}
}

func TestEvaluate_DebtDueWindow(t *testing.T) {
	state := models.FinancialState{
		Debts: []models.Debt{
			{ID: "d1", Name: "Card", CurrentAmount: 100, MinPayment: 25, DueDay: dueDay(15)},
		},
	}

	// Due today: exactly one warning keyed to the debt.
	items := Evaluate(state, day(t, "2025-07-15"))
	if len(items) != 1 {
		t.Fatalf("day 15: expected 1 item, got %d (%v)", len(items), itemIDs(items))
	}
	if items[0].ID != "debt-due-d1" || items[0].Kind != models.ReminderWarning {
		t.Errorf("day 15: got %+v", items[0])
	}

	// Three days out: exactly one upcoming info item.
	items = Evaluate(state, day(t, "2025-07-12"))
	if len(items) != 1 {
		t.Fatalf("day 12: expected 1 item, got %d (%v)", len(items), itemIDs(items))
	}
	if items[0].ID != "debt-upcoming-d1" || items[0].Kind != models.ReminderInfo {
		t.Errorf("day 12: got %+v", items[0])
	}
	if items[0].Message != "The payment for Card is due in 3 days." {
		t.Errorf("day 12: unexpected message %q", items[0].Message)
	}

	// Past the due day: nothing.
	items = Evaluate(state, day(t, "2025-07-20"))
	if len(items) != 0 {
		t.Fatalf("day 20: expected no items, got %v", itemIDs(items))
	}
}

func TestEvaluate_SingularDayMessage(t *testing.T) {
	state := models.FinancialState{
		Debts: []models.Debt{
			{ID: "d1", Name: "Card", CurrentAmount: 100, MinPayment: 25, DueDay: dueDay(15)},
		},
	}
	items := Evaluate(state, day(t, "2025-07-14"))
	item, ok := findItem(items, "debt-upcoming-d1")
	if !ok {
		t.Fatal("expected upcoming reminder one day out")
	}
	if item.Message != "The payment for Card is due in 1 day." {
		t.Errorf("unexpected message %q", item.Message)
	}
}

func TestEvaluate_PaidOffDebtIsSilent(t *testing.T) {
	state := models.FinancialState{
		Debts: []models.Debt{
			{ID: "d1", Name: "Done", CurrentAmount: 0, MinPayment: 25, DueDay: dueDay(15)},
			{ID: "d2", Name: "NoDueDay", CurrentAmount: 500, MinPayment: 25},
		},
	}
	items := Evaluate(state, day(t, "2025-07-15"))
	if len(items) != 0 {
		t.Fatalf("expected no items, got %v", itemIDs(items))
	}
}

func TestEvaluate_NoWrapAcrossMonthBoundary(t *testing.T) {
	// A debt due on the 2nd is not flagged as upcoming on the 30th of a
	// 31-day month. Kept as documented behavior.
	state := models.FinancialState{
		Debts: []models.Debt{
			{ID: "d1", Name: "Loan", CurrentAmount: 900, MinPayment: 50, DueDay: dueDay(2)},
		},
	}
	items := Evaluate(state, day(t, "2025-07-30"))
	if len(items) != 0 {
		t.Fatalf("expected no items at month boundary, got %v", itemIDs(items))
	}
}

func TestEvaluate_MonthlyExpense(t *testing.T) {
	state := models.FinancialState{
		Expenses: []models.Expense{
			{ID: "e1", Name: "Rent", Amount: 1200, DueDay: 15},
			{ID: "e2", Name: "Gym", Amount: 30, Frequency: models.FrequencyMonthly, DueDay: 20},
		},
	}

	items := Evaluate(state, day(t, "2025-07-15"))
	if len(items) != 1 || items[0].ID != "expense-e1" {
		t.Fatalf("day 15: expected only rent, got %v", itemIDs(items))
	}
	if items[0].Kind != models.ReminderInfo {
		t.Errorf("expense reminder should be info, got %s", items[0].Kind)
	}

	items = Evaluate(state, day(t, "2025-07-20"))
	if len(items) != 1 || items[0].ID != "expense-e2" {
		t.Fatalf("day 20: expected only gym, got %v", itemIDs(items))
	}
}

func TestEvaluate_WeeklyExpenseMatchesWeekday(t *testing.T) {
	// DueDay 1 means Monday for weekly expenses.
	state := models.FinancialState{
		Expenses: []models.Expense{
			{ID: "e1", Name: "Cleaner", Amount: 80, Frequency: models.FrequencyWeekly, DueDay: 1},
		},
	}

	// 2025-07-14 is a Monday with day-of-month 14.
	items := Evaluate(state, day(t, "2025-07-14"))
	if _, ok := findItem(items, "expense-e1"); !ok {
		t.Error("expected weekly expense on Monday")
	}

	// 2025-07-01 has day-of-month 1 but is a Tuesday.
	items = Evaluate(state, day(t, "2025-07-01"))
	if _, ok := findItem(items, "expense-e1"); ok {
		t.Error("weekly expense must match day-of-week, not day-of-month")
	}
}

func TestEvaluate_BiweeklyAnchors(t *testing.T) {
	// Bi-weekly matches dueDay itself and dueDay-15 days earlier, as two
	// fixed anchors rather than a rolling 14-day cadence.
	state := models.FinancialState{
		Expenses: []models.Expense{
			{ID: "e1", Name: "Paycheck savings", Amount: 200, Frequency: models.FrequencyBiweekly, DueDay: 20},
		},
	}

	for _, tt := range []struct {
		date string
		want bool
	}{
		{"2025-07-20", true},  // dueDay == day
		{"2025-07-05", true},  // dueDay == day+15
		{"2025-07-12", false},
	} {
		items := Evaluate(state, day(t, tt.date))
		_, ok := findItem(items, "expense-e1")
		if ok != tt.want {
			t.Errorf("%s: fired=%v, want %v", tt.date, ok, tt.want)
		}
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	state := models.FinancialState{
		Debts: []models.Debt{
			{ID: "d1", Name: "Card", CurrentAmount: 100, MinPayment: 25, DueDay: dueDay(2)},
		},
		Expenses: []models.Expense{
			{ID: "e1", Name: "Rent", Amount: 1200, DueDay: 2},
		},
	}
	date := day(t, "2025-07-02")

	first := Evaluate(state, date)
	second := Evaluate(state, date)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated evaluation differs:\n%v\n%v", first, second)
	}
	if len(first) != 3 {
		t.Fatalf("expected check-in, due-today and expense items, got %v", itemIDs(first))
	}
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	state := models.FinancialState{
		Debts: []models.Debt{
			{ID: "d1", Name: "Card", CurrentAmount: 100, MinPayment: 25, DueDay: dueDay(15)},
		},
	}
	before := state.Clone()
	Evaluate(state, day(t, "2025-07-15"))
	if !reflect.DeepEqual(state.Debts, before.Debts) {
		t.Error("input snapshot was mutated")
	}
}

func TestContextFor(t *testing.T) {
	ctx := ContextFor(day(t, "2025-02-10"))
	if ctx.DayOfMonth != 10 || ctx.DayOfWeek != 1 || ctx.DaysInMonth != 28 {
		t.Errorf("unexpected context %+v", ctx)
	}

	ctx = ContextFor(day(t, "2024-02-10"))
	if ctx.DaysInMonth != 29 {
		t.Errorf("expected leap February to have 29 days, got %d", ctx.DaysInMonth)
	}
}
