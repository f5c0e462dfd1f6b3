package models

// Debt represents a tracked obligation with a minimum monthly payment
type Debt struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	InitialAmount float64  `json:"initial_amount"`
	CurrentAmount float64  `json:"current_amount"`
	MinPayment    float64  `json:"min_payment"`
	InterestRate  *float64 `json:"interest_rate,omitempty"` // annual nominal percent
	DueDay        *int     `json:"due_day,omitempty"`       // day of month, 1-31
	Color         string   `json:"color,omitempty"`         // display only
}
