package types

import (
	"github.com/greenhaven/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Money is a currency-scoped decimal amount. Amounts stay unrounded through
// intermediate computation; rounding to the currency's minor unit happens only
// at formatting or minor-unit conversion.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency enums.Currency  `json:"currency"`
}

// NewMoney builds a Money value in the given currency.
func NewMoney(amount decimal.Decimal, currency enums.Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// USD builds a Money value denominated in US dollars.
func USD(amount decimal.Decimal) Money {
	return NewMoney(amount, enums.CurrencyUSD)
}

// USDFromCents converts a minor-unit amount into dollars.
func USDFromCents(cents int64) Money {
	return USD(decimal.NewFromInt(cents).Shift(-2))
}

// Add returns the sum of two amounts. Currencies are expected to match; the
// receiver's currency wins.
func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}
}

// Mul scales the amount by the given factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// IsZero reports whether the rounded amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.Round(2).IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Cents returns the amount in minor units, rounded half up.
func (m Money) Cents() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}

// Formatted renders the amount at minor-unit precision, e.g. "121.88".
func (m Money) Formatted() string {
	return m.Amount.Round(2).StringFixed(2)
}
