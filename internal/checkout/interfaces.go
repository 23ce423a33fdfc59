package checkout

import (
	"context"

	"github.com/greenhaven/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// CustomerInput captures the buyer contact info sent to the order/payment
// provider when linking a customer record.
type CustomerInput struct {
	Email     string
	FirstName string
	LastName  string
	Address   types.ShippingAddress
}

// OrderLineItem is one purchasable line on the provider order, priced in
// minor units.
type OrderLineItem struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// OrderTaxLine is a percentage-scoped tax applied to the whole order.
type OrderTaxLine struct {
	Name        string
	RatePercent decimal.Decimal
}

// OrderInput is the payload for order creation with the payment provider.
type OrderInput struct {
	ReferenceID string
	CustomerID  string
	Email       string
	Lines       []OrderLineItem
	Taxes       []OrderTaxLine
	Address     types.ShippingAddress
}

// OrderResult reports the created order and the hosted payment page the
// buyer is redirected to.
type OrderResult struct {
	OrderID     string
	RedirectURL string
}

// OrderProvider is the external order/payment platform. Customer creation is
// a separate call because its failure is non-fatal to checkout.
type OrderProvider interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (string, error)
	CreateOrder(ctx context.Context, input OrderInput) (*OrderResult, error)
}
