package tax

import (
	"fmt"

	"github.com/greenhaven/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Component is one display row of a tax breakdown.
type Component struct {
	Label           string          `json:"label"`
	Amount          types.Money     `json:"amount"`
	RatePercent     decimal.Decimal `json:"rate_percent"`
	FormattedAmount string          `json:"formatted_amount"`
}

// Breakdown returns the ordered display components for a calculation,
// omitting zero-amount entries.
func Breakdown(calc Calculation) []Component {
	components := make([]Component, 0, 2)

	if !calc.StateTaxAmount.IsZero() {
		components = append(components, Component{
			Label:           fmt.Sprintf("%s sales tax", calc.Jurisdiction),
			Amount:          calc.StateTaxAmount,
			RatePercent:     calc.StateTaxRate,
			FormattedAmount: calc.StateTaxAmount.Formatted(),
		})
	}

	if !calc.ExciseTaxAmount.IsZero() {
		components = append(components, Component{
			Label:           "Hemp excise tax",
			Amount:          calc.ExciseTaxAmount,
			RatePercent:     calc.ExciseTaxRate,
			FormattedAmount: calc.ExciseTaxAmount.Formatted(),
		})
	}

	return components
}
