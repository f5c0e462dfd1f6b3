package payoff

import (
	"sort"

	"github.com/tomasvera/debtwise/internal/models"
)

// Result pairs a debt with its projected payoff horizon
type Result struct {
	DebtID  string  `json:"debt_id"`
	Name    string  `json:"name"`
	Horizon Horizon `json:"horizon"`
}

// Rank computes the payoff horizon for every debt and returns the
// results sorted ascending by horizon. Unpayable debts sort after all
// finite ones; ties keep the input order.
func Rank(debts []models.Debt) []Result {
	results := make([]Result, len(debts))
	for i, d := range debts {
		results[i] = Result{
			DebtID:  d.ID,
			Name:    d.Name,
			Horizon: Calculate(d.CurrentAmount, d.MinPayment, d.InterestRate),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Horizon.Less(results[j].Horizon)
	})
	return results
}
