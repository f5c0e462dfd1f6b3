package models

import "time"

// Payment represents a payment applied to a debt. Payments form an
// append-only log: once recorded they are never edited or deleted.
type Payment struct {
	ID         string    `json:"id"`
	DebtID     string    `json:"debt_id"`
	Amount     float64   `json:"amount"`
	Date       time.Time `json:"date"`
	RecordedBy string    `json:"recorded_by"`
}
