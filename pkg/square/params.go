package square

import (
	"strconv"
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// CustomerCreateParams is the buyer contact payload for a Square customer
// record. Storefront buyers are individuals, so there is no company or
// reference-id handling here.
type CustomerCreateParams struct {
	Email          string
	PhoneNumber    string
	GivenName      string
	FamilyName     string
	Address        *sq.Address
	IdempotencyKey string
}

func (p CustomerCreateParams) toSquareRequest(idempotencyKey string) *sq.CreateCustomerRequest {
	req := &sq.CreateCustomerRequest{
		IdempotencyKey: ptrString(idempotencyKey),
	}
	if trimmed := strings.TrimSpace(p.Email); trimmed != "" {
		req.EmailAddress = ptrString(trimmed)
	}
	if trimmed := strings.TrimSpace(p.PhoneNumber); trimmed != "" {
		req.PhoneNumber = ptrString("+1" + trimmed)
	}
	if trimmed := strings.TrimSpace(p.GivenName); trimmed != "" {
		req.GivenName = ptrString(trimmed)
	}
	if trimmed := strings.TrimSpace(p.FamilyName); trimmed != "" {
		req.FamilyName = ptrString(trimmed)
	}
	if p.Address != nil {
		req.Address = p.Address
	}
	return req
}

// PaymentLinkLineItem is one purchasable line placed on the hosted order.
type PaymentLinkLineItem struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
	Currency       string
}

// PaymentLinkTax is an order-scoped additive percentage tax.
type PaymentLinkTax struct {
	Name       string
	Percentage string
}

// PaymentLinkCreateParams groups the inputs for a hosted checkout page.
type PaymentLinkCreateParams struct {
	LocationID     string
	ReferenceID    string
	CustomerID     string
	RedirectURL    string
	LineItems      []PaymentLinkLineItem
	Taxes          []PaymentLinkTax
	IdempotencyKey string
}

func (p PaymentLinkCreateParams) toSquareRequest(idempotencyKey string) *sqcheckout.CreatePaymentLinkRequest {
	order := &sq.Order{
		LocationID: p.LocationID,
	}
	if trimmed := strings.TrimSpace(p.ReferenceID); trimmed != "" {
		order.ReferenceID = ptrString(trimmed)
	}
	if trimmed := strings.TrimSpace(p.CustomerID); trimmed != "" {
		order.CustomerID = ptrString(trimmed)
	}
	for _, item := range p.LineItems {
		order.LineItems = append(order.LineItems, &sq.OrderLineItem{
			Name:           ptrString(item.Name),
			Quantity:       strconv.Itoa(item.Quantity),
			BasePriceMoney: moneyPtr(item.UnitPriceCents, item.Currency),
		})
	}
	for _, tax := range p.Taxes {
		scope := sq.OrderLineItemTaxScopeOrder
		taxType := sq.OrderLineItemTaxTypeAdditive
		order.Taxes = append(order.Taxes, &sq.OrderLineItemTax{
			Name:       ptrString(tax.Name),
			Percentage: ptrString(tax.Percentage),
			Scope:      &scope,
			Type:       &taxType,
		})
	}

	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		Order:          order,
	}
	if trimmed := strings.TrimSpace(p.RedirectURL); trimmed != "" {
		req.CheckoutOptions = &sq.CheckoutOptions{RedirectURL: ptrString(trimmed)}
	}
	return req
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		trimmed = "USD"
	}
	c := sq.Currency(trimmed)
	return &c
}

// moneyPtr keeps zero amounts explicit so a free line still carries a
// BasePriceMoney; only negative amounts are dropped.
func moneyPtr(amount int64, currency string) *sq.Money {
	if amount < 0 {
		return nil
	}
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
