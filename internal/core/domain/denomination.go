package domain

import "github.com/shopspring/decimal"

// DenominationCount is the physical cash-count input to reconciliation: a
// mapping from note face value to the number of notes counted, plus a single
// value bucket for coins. It is a plain value object with no identity or
// lifecycle; only its total is ever persisted.
type DenominationCount struct {
	Notes map[int64]int64 `json:"notes"` // face value -> count
	Coins decimal.Decimal `json:"coins"` // total value of coins, not a count
}

// Total computes the physical cash total: sum of faceValue*count over all
// notes plus the coins value.
func (d DenominationCount) Total() decimal.Decimal {
	total := d.Coins
	for face, count := range d.Notes {
		total = total.Add(decimal.NewFromInt(face).Mul(decimal.NewFromInt(count)))
	}
	return total
}

// IsValid reports whether all note counts are non-negative and the coins
// value is non-negative.
func (d DenominationCount) IsValid() bool {
	if d.Coins.IsNegative() {
		return false
	}
	for face, count := range d.Notes {
		if face <= 0 || count < 0 {
			return false
		}
	}
	return true
}
