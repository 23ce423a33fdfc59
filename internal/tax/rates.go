package tax

import "github.com/shopspring/decimal"

// ExciseJurisdiction is the one region that levies an additional hemp excise
// tax on top of its sales tax.
const ExciseJurisdiction = "MN"

// ExciseRatePercent is applied to the pre-tax subtotal for the excise
// jurisdiction. It is not compounded on top of sales tax.
var ExciseRatePercent = decimal.RequireFromString("15")

// stateRatePercent maps 2-letter jurisdiction codes to statewide sales-tax
// percentages. Local surtaxes are out of scope. Unknown codes resolve to zero.
var stateRatePercent = map[string]decimal.Decimal{
	"AL": decimal.RequireFromString("4"),
	"AK": decimal.RequireFromString("0"),
	"AZ": decimal.RequireFromString("5.6"),
	"AR": decimal.RequireFromString("6.5"),
	"CA": decimal.RequireFromString("7.25"),
	"CO": decimal.RequireFromString("2.9"),
	"CT": decimal.RequireFromString("6.35"),
	"DE": decimal.RequireFromString("0"),
	"DC": decimal.RequireFromString("6"),
	"FL": decimal.RequireFromString("6"),
	"GA": decimal.RequireFromString("4"),
	"HI": decimal.RequireFromString("4"),
	"ID": decimal.RequireFromString("6"),
	"IL": decimal.RequireFromString("6.25"),
	"IN": decimal.RequireFromString("7"),
	"IA": decimal.RequireFromString("6"),
	"KS": decimal.RequireFromString("6.5"),
	"KY": decimal.RequireFromString("6"),
	"LA": decimal.RequireFromString("4.45"),
	"ME": decimal.RequireFromString("5.5"),
	"MD": decimal.RequireFromString("6"),
	"MA": decimal.RequireFromString("6.25"),
	"MI": decimal.RequireFromString("6"),
	"MN": decimal.RequireFromString("6.875"),
	"MS": decimal.RequireFromString("7"),
	"MO": decimal.RequireFromString("4.225"),
	"MT": decimal.RequireFromString("0"),
	"NE": decimal.RequireFromString("5.5"),
	"NV": decimal.RequireFromString("6.85"),
	"NH": decimal.RequireFromString("0"),
	"NJ": decimal.RequireFromString("6.625"),
	"NM": decimal.RequireFromString("5.125"),
	"NY": decimal.RequireFromString("4"),
	"NC": decimal.RequireFromString("4.75"),
	"ND": decimal.RequireFromString("5"),
	"OH": decimal.RequireFromString("5.75"),
	"OK": decimal.RequireFromString("4.5"),
	"OR": decimal.RequireFromString("0"),
	"PA": decimal.RequireFromString("6"),
	"RI": decimal.RequireFromString("7"),
	"SC": decimal.RequireFromString("6"),
	"SD": decimal.RequireFromString("4.5"),
	"TN": decimal.RequireFromString("7"),
	"TX": decimal.RequireFromString("6.25"),
	"UT": decimal.RequireFromString("6.1"),
	"VT": decimal.RequireFromString("6"),
	"VA": decimal.RequireFromString("5.3"),
	"WA": decimal.RequireFromString("6.5"),
	"WV": decimal.RequireFromString("6"),
	"WI": decimal.RequireFromString("5"),
	"WY": decimal.RequireFromString("4"),
}

// StateRatePercent returns the sales-tax percentage for a jurisdiction.
// Unknown codes fail open to zero tax, never an error.
func StateRatePercent(jurisdiction string) decimal.Decimal {
	if rate, ok := stateRatePercent[jurisdiction]; ok {
		return rate
	}
	return decimal.Zero
}
