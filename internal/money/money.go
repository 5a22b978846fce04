package money

import (
	"errors"
	"fmt"
)

// ErrCurrencyMismatch is returned when amounts in different currencies are combined.
var ErrCurrencyMismatch = errors.New("money: currency mismatch")

// Money represents a monetary value stored in minor units (subunits).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// New constructs a Money value.
func New(amount int64, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// IsZero reports whether the value is the zero Money (no currency set).
func (m Money) IsZero() bool {
	return m.Amount == 0 && m.Currency == ""
}

// Add returns the sum of two amounts, failing on mixed currencies.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// MajorUnits converts the amount to major currency units. The marketplace
// only deals in 2-decimal-subunit currencies, so this divides by 100.
func (m Money) MajorUnits() float64 {
	return float64(m.Amount) / 100
}

// Sum adds the provided amounts in the given currency. Every value must carry
// that currency; an empty input yields a zero amount in the currency.
func Sum(currency string, values ...Money) (Money, error) {
	total := Money{Amount: 0, Currency: currency}
	for _, v := range values {
		added, err := total.Add(v)
		if err != nil {
			return Money{}, err
		}
		total = added
	}
	return total, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Amount, m.Currency)
}
