package models

// Frequency is the cadence of a recurring expense
type Frequency string

const (
	FrequencyMonthly  Frequency = "monthly"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
)

// Expense represents a recurring fixed expense.
// DueDay is a day of month (1-31) for monthly and bi-weekly expenses,
// and a day of week (0=Sunday..6=Saturday) for weekly expenses.
type Expense struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Frequency Frequency `json:"frequency,omitempty"` // empty means monthly
	DueDay    int       `json:"due_day"`
}

// Cadence normalizes the frequency, treating the zero value as monthly
func (e Expense) Cadence() Frequency {
	if e.Frequency == "" {
		return FrequencyMonthly
	}
	return e.Frequency
}
