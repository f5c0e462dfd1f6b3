package models

// Income represents a recurring income source
type Income struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}
