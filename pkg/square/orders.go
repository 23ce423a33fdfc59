package square

import (
	"context"

	sq "github.com/square/square-go-sdk"

	"github.com/greenhaven/storefront-backend/internal/checkout"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
)

// OrderService adapts the Square wrapper to the checkout orchestrator. Orders
// are created through payment links so the buyer lands on Square's hosted
// payment page.
type OrderService struct {
	client      *Client
	locationID  string
	redirectURL string
}

var _ checkout.OrderProvider = (*OrderService)(nil)

// NewOrderService builds the adapter.
func NewOrderService(client *Client, locationID, redirectURL string) *OrderService {
	return &OrderService{client: client, locationID: locationID, redirectURL: redirectURL}
}

// CreateCustomer links or creates the Square customer record for the buyer.
func (s *OrderService) CreateCustomer(ctx context.Context, input checkout.CustomerInput) (string, error) {
	customer, err := s.client.EnsureCustomer(ctx, CustomerCreateParams{
		Email:      input.Email,
		GivenName:  input.FirstName,
		FamilyName: input.LastName,
		Address:    toSquareAddress(input),
	})
	if err != nil {
		return "", err
	}
	return stringValue(customer.GetID()), nil
}

// CreateOrder builds the Square order and hosted payment page in one call.
func (s *OrderService) CreateOrder(ctx context.Context, input checkout.OrderInput) (*checkout.OrderResult, error) {
	params := PaymentLinkCreateParams{
		LocationID:  s.locationID,
		ReferenceID: input.ReferenceID,
		CustomerID:  input.CustomerID,
		RedirectURL: s.redirectURL,
	}
	for _, line := range input.Lines {
		params.LineItems = append(params.LineItems, PaymentLinkLineItem{
			Name:           line.Name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Currency:       "USD",
		})
	}
	for _, tax := range input.Taxes {
		params.Taxes = append(params.Taxes, PaymentLinkTax{
			Name:       tax.Name,
			Percentage: tax.RatePercent.String(),
		})
	}

	link, err := s.client.CreatePaymentLink(ctx, params)
	if err != nil {
		return nil, err
	}
	result := &checkout.OrderResult{
		OrderID:     stringValue(link.GetOrderID()),
		RedirectURL: stringValue(link.GetURL()),
	}
	if result.OrderID == "" || result.RedirectURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "square returned an incomplete payment link")
	}
	return result, nil
}

func toSquareAddress(input checkout.CustomerInput) *sq.Address {
	addr := input.Address
	if addr.Address1 == "" && addr.City == "" {
		return nil
	}
	out := &sq.Address{
		AddressLine1:                 ptrString(addr.Address1),
		Locality:                     ptrString(addr.City),
		AdministrativeDistrictLevel1: ptrString(addr.ProvinceCode),
		PostalCode:                   ptrString(addr.PostalCode),
	}
	if addr.Address2 != nil {
		out.AddressLine2 = ptrString(*addr.Address2)
	}
	if addr.CountryCode != "" {
		country := sq.Country(addr.CountryCode)
		out.Country = &country
	}
	return out
}
