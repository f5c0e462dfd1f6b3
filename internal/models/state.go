package models

import "time"

// HistoryPoint records the total outstanding debt at a point in time
type HistoryPoint struct {
	Date      time.Time `json:"date"`
	TotalDebt float64   `json:"total_debt"`
}

// FinancialState is the full snapshot of tracked finances. Snapshots are
// value-like: mutations produce a wholly new snapshot rather than editing
// one in place, so readers never observe a partial update.
type FinancialState struct {
	Debts    []Debt         `json:"debts"`
	Expenses []Expense      `json:"expenses"`
	Incomes  []Income       `json:"incomes"`
	Payments []Payment      `json:"payments"`
	History  []HistoryPoint `json:"history"`
}

// Clone returns a deep copy of the snapshot
func (s FinancialState) Clone() FinancialState {
	out := FinancialState{
		Debts:    make([]Debt, len(s.Debts)),
		Expenses: make([]Expense, len(s.Expenses)),
		Incomes:  make([]Income, len(s.Incomes)),
		Payments: make([]Payment, len(s.Payments)),
		History:  make([]HistoryPoint, len(s.History)),
	}
	copy(out.Expenses, s.Expenses)
	copy(out.Incomes, s.Incomes)
	copy(out.Payments, s.Payments)
	copy(out.History, s.History)
	for i, d := range s.Debts {
		if d.InterestRate != nil {
			rate := *d.InterestRate
			d.InterestRate = &rate
		}
		if d.DueDay != nil {
			day := *d.DueDay
			d.DueDay = &day
		}
		out.Debts[i] = d
	}
	return out
}

// TotalDebt sums the current amount across all debts
func (s FinancialState) TotalDebt() float64 {
	total := 0.0
	for _, d := range s.Debts {
		total += d.CurrentAmount
	}
	return total
}

// DebtByID returns the debt with the given id, if present
func (s FinancialState) DebtByID(id string) (Debt, bool) {
	for _, d := range s.Debts {
		if d.ID == id {
			return d, true
		}
	}
	return Debt{}, false
}
