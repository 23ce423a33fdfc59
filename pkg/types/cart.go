package types

// Attribute keys written into the cart provider's free-form bags. The typed
// structs below are the only representation the services pass around; the
// string maps exist solely at the provider boundary.
const (
	AttrTaxType   = "tax_type"
	AttrTaxAmount = "tax_amount"
	AttrTaxRate   = "tax_rate"

	AttrExciseEligible = "excise_eligible"
	AttrExciseState    = "excise_state"
	AttrExciseAmount   = "excise_tax_amount"
	AttrExciseRate     = "excise_tax_rate"
)

// LineAttributes is the closed set of attributes carried on a cart line.
// Ordinary merchandise lines have an empty TaxType; the synthetic excise line
// carries all three fields.
type LineAttributes struct {
	TaxType   string
	TaxAmount string
	TaxRate   string
}

// IsTaxLine reports whether the line is a synthetic tax line rather than
// purchasable merchandise.
func (a LineAttributes) IsTaxLine() bool {
	return a.TaxType != ""
}

// Encode renders the attributes as the provider's key/value bag, omitting
// empty fields.
func (a LineAttributes) Encode() map[string]string {
	bag := map[string]string{}
	if a.TaxType != "" {
		bag[AttrTaxType] = a.TaxType
	}
	if a.TaxAmount != "" {
		bag[AttrTaxAmount] = a.TaxAmount
	}
	if a.TaxRate != "" {
		bag[AttrTaxRate] = a.TaxRate
	}
	return bag
}

// DecodeLineAttributes extracts the typed fields from a provider bag. Unknown
// keys are ignored.
func DecodeLineAttributes(bag map[string]string) LineAttributes {
	return LineAttributes{
		TaxType:   bag[AttrTaxType],
		TaxAmount: bag[AttrTaxAmount],
		TaxRate:   bag[AttrTaxRate],
	}
}

// CartAttributes is the closed set of cart-level attributes recording
// jurisdiction eligibility and the last computed excise figures. They support
// display paths that do not read the synthetic line.
type CartAttributes struct {
	ExciseEligible bool
	ExciseState    string
	ExciseAmount   string
	ExciseRate     string
}

// Encode renders the attributes as the provider's key/value bag.
func (a CartAttributes) Encode() map[string]string {
	bag := map[string]string{
		AttrExciseEligible: "false",
	}
	if a.ExciseEligible {
		bag[AttrExciseEligible] = "true"
	}
	if a.ExciseState != "" {
		bag[AttrExciseState] = a.ExciseState
	}
	if a.ExciseAmount != "" {
		bag[AttrExciseAmount] = a.ExciseAmount
	}
	if a.ExciseRate != "" {
		bag[AttrExciseRate] = a.ExciseRate
	}
	return bag
}

// DecodeCartAttributes extracts the typed fields from a provider bag.
func DecodeCartAttributes(bag map[string]string) CartAttributes {
	return CartAttributes{
		ExciseEligible: bag[AttrExciseEligible] == "true",
		ExciseState:    bag[AttrExciseState],
		ExciseAmount:   bag[AttrExciseAmount],
		ExciseRate:     bag[AttrExciseRate],
	}
}

// CartLine is one entry in a cart snapshot.
type CartLine struct {
	ID            string         `json:"id"`
	MerchandiseID string         `json:"merchandise_id"`
	Title         string         `json:"title"`
	Quantity      int            `json:"quantity"`
	UnitPrice     Money          `json:"unit_price"`
	Attributes    LineAttributes `json:"attributes"`
}

// Subtotal returns quantity times unit price.
func (l CartLine) Subtotal() Money {
	return USDFromCents(l.UnitPrice.Cents() * int64(l.Quantity))
}

// CartCost carries the provider-reported totals.
type CartCost struct {
	Subtotal Money `json:"subtotal"`
	Total    Money `json:"total"`
}

// Cart is the full authoritative snapshot returned by the cart provider after
// every operation. It is never mutated locally; each mutation replaces it.
type Cart struct {
	ID         string         `json:"id"`
	Lines      []CartLine     `json:"lines"`
	Attributes CartAttributes `json:"attributes"`
	Cost       CartCost       `json:"cost"`
}

// TaxLines returns the synthetic tax lines currently on the cart. A healthy
// cart has zero or one.
func (c *Cart) TaxLines() []CartLine {
	if c == nil {
		return nil
	}
	var lines []CartLine
	for _, line := range c.Lines {
		if line.Attributes.IsTaxLine() {
			lines = append(lines, line)
		}
	}
	return lines
}

// MerchandiseLines returns the lines representing purchasable goods.
func (c *Cart) MerchandiseLines() []CartLine {
	if c == nil {
		return nil
	}
	var lines []CartLine
	for _, line := range c.Lines {
		if !line.Attributes.IsTaxLine() {
			lines = append(lines, line)
		}
	}
	return lines
}

// MerchandiseSubtotal sums the merchandise lines only, ignoring any synthetic
// tax line still present on the snapshot.
func (c *Cart) MerchandiseSubtotal() Money {
	var cents int64
	for _, line := range c.MerchandiseLines() {
		cents += line.Subtotal().Cents()
	}
	return USDFromCents(cents)
}
