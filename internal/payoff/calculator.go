// Package payoff projects how long debts take to retire under fixed
// minimum payments, assuming monthly compounding.
package payoff

import (
	"encoding/json"
	"fmt"
	"math"
)

// Horizon is a projected payoff time: either a finite number of monthly
// periods, or unpayable when the payment never outruns accruing interest.
// Modeled as a tagged value rather than a float infinity so comparison
// and serialization stay total.
type Horizon struct {
	months    float64
	unpayable bool
}

// Finite returns a horizon of the given number of months
func Finite(months float64) Horizon {
	return Horizon{months: months}
}

// Unpayable returns the horizon for a debt the payment can never retire
func Unpayable() Horizon {
	return Horizon{unpayable: true}
}

// IsUnpayable reports whether the debt can never be paid off
func (h Horizon) IsUnpayable() bool {
	return h.unpayable
}

// Months returns the finite month count; ok is false for unpayable horizons
func (h Horizon) Months() (months float64, ok bool) {
	if h.unpayable {
		return 0, false
	}
	return h.months, true
}

// Less orders horizons ascending. Every unpayable horizon sorts after
// every finite one; unpayable horizons are mutually unordered.
func (h Horizon) Less(other Horizon) bool {
	if h.unpayable {
		return false
	}
	if other.unpayable {
		return true
	}
	return h.months < other.months
}

type horizonJSON struct {
	Months    *float64 `json:"months,omitempty"`
	Unpayable bool     `json:"unpayable,omitempty"`
}

// MarshalJSON encodes the horizon as {"months":n} or {"unpayable":true}
func (h Horizon) MarshalJSON() ([]byte, error) {
	if h.unpayable {
		return json.Marshal(horizonJSON{Unpayable: true})
	}
	months := h.months
	return json.Marshal(horizonJSON{Months: &months})
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON
func (h *Horizon) UnmarshalJSON(data []byte) error {
	var raw horizonJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode horizon: %w", err)
	}
	if raw.Unpayable {
		*h = Unpayable()
		return nil
	}
	if raw.Months == nil {
		return fmt.Errorf("horizon has neither months nor unpayable")
	}
	*h = Finite(*raw.Months)
	return nil
}

// Format renders the horizon for display as years and months
func (h Horizon) Format() string {
	if h.unpayable {
		return "never at current payment"
	}
	if h.months <= 0 {
		return "paid off"
	}
	years := int(math.Floor(h.months / 12))
	months := int(math.Ceil(math.Mod(h.months, 12)))
	if years == 0 {
		return fmt.Sprintf("%d months", months)
	}
	if months == 0 {
		return fmt.Sprintf("%d years", years)
	}
	return fmt.Sprintf("%d years %d months", years, months)
}

// Calculate projects the payoff horizon for a balance under a fixed
// monthly payment. annualRate is a nominal annual percentage; nil means
// interest-free. Inputs are assumed validated (non-negative, non-NaN)
// by the caller's input boundary.
func Calculate(currentAmount, minPayment float64, annualRate *float64) Horizon {
	if currentAmount <= 0 {
		return Finite(0)
	}
	if minPayment <= 0 {
		return Unpayable()
	}

	rate := 0.0
	if annualRate != nil {
		rate = *annualRate
	}
	monthlyRate := rate / 100 / 12

	if monthlyRate == 0 {
		return Finite(currentAmount / minPayment)
	}

	// Payment must exceed one period of interest or the balance never shrinks.
	interest := currentAmount * monthlyRate
	if minPayment <= interest {
		return Unpayable()
	}

	// NPER closed form: n = ln(p / (p - B*r)) / ln(1 + r)
	months := math.Log(minPayment/(minPayment-interest)) / math.Log(1+monthlyRate)
	return Finite(months)
}
