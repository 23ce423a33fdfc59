package tax

import (
	"strings"

	"github.com/greenhaven/storefront-backend/pkg/enums"
	"github.com/greenhaven/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Calculation is the itemized tax result for a subtotal in one jurisdiction.
// It is a value object: recomputed on every change, never mutated in place.
// Amounts stay unrounded; rounding happens at formatting time so repeated
// recomputation cannot compound rounding error.
type Calculation struct {
	Jurisdiction    string      `json:"jurisdiction"`
	Subtotal        types.Money `json:"subtotal"`
	StateTaxRate    decimal.Decimal `json:"state_tax_rate"`
	StateTaxAmount  types.Money `json:"state_tax_amount"`
	ExciseTaxRate   decimal.Decimal `json:"excise_tax_rate"`
	ExciseTaxAmount types.Money `json:"excise_tax_amount"`
	TotalTax        types.Money `json:"total_tax"`
	Total           types.Money `json:"total"`
}

// Calculate maps (subtotal, jurisdiction) to an itemized tax breakdown.
// State sales tax and the excise tax are each computed independently against
// the pre-tax subtotal and then summed; the excise base is not compounded.
// Pure and deterministic: no I/O, no error paths. Unknown jurisdictions and
// negative subtotals fail open to zero tax.
func Calculate(subtotal types.Money, jurisdiction string) Calculation {
	code := strings.ToUpper(strings.TrimSpace(jurisdiction))
	amount := subtotal.Amount
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	base := types.NewMoney(amount, currencyOrUSD(subtotal.Currency))

	stateRate := StateRatePercent(code)
	stateTax := base.Mul(stateRate.Shift(-2))

	exciseRate := decimal.Zero
	exciseTax := types.NewMoney(decimal.Zero, base.Currency)
	if code == ExciseJurisdiction {
		exciseRate = ExciseRatePercent
		exciseTax = base.Mul(exciseRate.Shift(-2))
	}

	totalTax := stateTax.Add(exciseTax)

	return Calculation{
		Jurisdiction:    code,
		Subtotal:        base,
		StateTaxRate:    stateRate,
		StateTaxAmount:  stateTax,
		ExciseTaxRate:   exciseRate,
		ExciseTaxAmount: exciseTax,
		TotalTax:        totalTax,
		Total:           base.Add(totalTax),
	}
}

// ExciseEligible reports whether the jurisdiction levies the excise tax.
func ExciseEligible(jurisdiction string) bool {
	return strings.ToUpper(strings.TrimSpace(jurisdiction)) == ExciseJurisdiction
}

func currencyOrUSD(currency enums.Currency) enums.Currency {
	if currency.IsValid() {
		return currency
	}
	return enums.CurrencyUSD
}
