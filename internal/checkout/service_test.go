package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/greenhaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type stubCartService struct {
	snapshot *types.Cart
	err      error
}

func (s *stubCartService) CreateCart(context.Context, string, int) (*types.Cart, error) {
	return nil, errors.New("not used")
}

func (s *stubCartService) AddLine(context.Context, string, string, int) (*types.Cart, error) {
	return nil, errors.New("not used")
}

func (s *stubCartService) UpdateLineQuantity(context.Context, string, string, int) (*types.Cart, error) {
	return nil, errors.New("not used")
}

func (s *stubCartService) RemoveLines(context.Context, string, []string) (*types.Cart, error) {
	return nil, errors.New("not used")
}

func (s *stubCartService) GetCart(context.Context, string) (*types.Cart, error) {
	return s.snapshot, s.err
}

type stubOrderProvider struct {
	customerErr error
	orderErr    error

	customerCalls int
	lastOrder     OrderInput
	orderCalls    int
}

func (p *stubOrderProvider) CreateCustomer(_ context.Context, _ CustomerInput) (string, error) {
	p.customerCalls++
	if p.customerErr != nil {
		return "", p.customerErr
	}
	return "cust-1", nil
}

func (p *stubOrderProvider) CreateOrder(_ context.Context, input OrderInput) (*OrderResult, error) {
	p.orderCalls++
	p.lastOrder = input
	if p.orderErr != nil {
		return nil, p.orderErr
	}
	return &OrderResult{OrderID: "order-1", RedirectURL: "https://pay.example/order-1"}, nil
}

func money(value string) types.Money {
	return types.USD(decimal.RequireFromString(value))
}

func checkoutCart() *types.Cart {
	return &types.Cart{
		ID: "cart-1",
		Lines: []types.CartLine{
			{ID: "line-1", MerchandiseID: "var-1", Title: "CBD Tincture", Quantity: 1, UnitPrice: money("60.00")},
			{ID: "line-2", MerchandiseID: "var-2", Title: "Hemp Gummies", Quantity: 2, UnitPrice: money("20.00")},
			{
				ID:         "line-3",
				Title:      "Hemp Excise Tax",
				Quantity:   1,
				UnitPrice:  money("15.00"),
				Attributes: types.LineAttributes{TaxType: "mn_excise_tax"},
			},
		},
	}
}

func mnAddress() types.ShippingAddress {
	return types.ShippingAddress{
		FirstName:    "Jo",
		LastName:     "Berg",
		Address1:     "1 Lake St",
		City:         "Minneapolis",
		ProvinceCode: "MN",
		PostalCode:   "55401",
		CountryCode:  "US",
	}
}

func TestBeginComputesTaxFromLiveMerchandise(t *testing.T) {
	carts := &stubCartService{snapshot: checkoutCart()}
	orders := &stubOrderProvider{}
	svc, err := NewService(carts, orders, nil)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	result, err := svc.Begin(context.Background(), BeginInput{
		CartID:          "cart-1",
		Email:           "jo@example.com",
		ShippingAddress: mnAddress(),
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	// Subtotal derives from merchandise only; the synthetic line is excluded.
	if got := result.Tax.Subtotal.Formatted(); got != "100.00" {
		t.Fatalf("expected subtotal 100.00, got %s", got)
	}
	if got := result.Tax.Total.Formatted(); got != "121.88" {
		t.Fatalf("expected total 121.88, got %s", got)
	}
	if result.Step != enums.CheckoutStepPayment {
		t.Fatalf("expected payment step, got %s", result.Step)
	}
	if result.RedirectURL == "" || result.OrderID != "order-1" {
		t.Fatalf("unexpected result %+v", result)
	}

	if len(orders.lastOrder.Lines) != 2 {
		t.Fatalf("expected two order lines, got %d", len(orders.lastOrder.Lines))
	}
	if len(orders.lastOrder.Taxes) != 2 {
		t.Fatalf("expected state and excise tax lines, got %d", len(orders.lastOrder.Taxes))
	}
	if orders.lastOrder.CustomerID != "cust-1" {
		t.Fatalf("expected linked customer, got %q", orders.lastOrder.CustomerID)
	}
}

func TestBeginCustomerFailureIsNonFatal(t *testing.T) {
	carts := &stubCartService{snapshot: checkoutCart()}
	orders := &stubOrderProvider{customerErr: errors.New("customer api down")}
	svc, _ := NewService(carts, orders, nil)

	result, err := svc.Begin(context.Background(), BeginInput{
		CartID:          "cart-1",
		Email:           "jo@example.com",
		ShippingAddress: mnAddress(),
	})
	if err != nil {
		t.Fatalf("customer failure must not block checkout: %v", err)
	}
	if orders.lastOrder.CustomerID != "" {
		t.Fatalf("expected unlinked order, got customer %q", orders.lastOrder.CustomerID)
	}
	if result.OrderID != "order-1" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestBeginOrderFailureIsFatal(t *testing.T) {
	carts := &stubCartService{snapshot: checkoutCart()}
	orders := &stubOrderProvider{orderErr: pkgerrors.New(pkgerrors.CodeDependency, "order rejected: location inactive")}
	svc, _ := NewService(carts, orders, nil)

	_, err := svc.Begin(context.Background(), BeginInput{
		CartID:          "cart-1",
		Email:           "jo@example.com",
		ShippingAddress: mnAddress(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error surfaced verbatim, got %v", err)
	}
	if typed.Message() != "order rejected: location inactive" {
		t.Fatalf("provider message should pass through, got %q", typed.Message())
	}
	if orders.orderCalls != 1 {
		t.Fatalf("no automatic retry allowed, got %d calls", orders.orderCalls)
	}
}

func TestBeginRejectsStaleSubtotal(t *testing.T) {
	carts := &stubCartService{snapshot: checkoutCart()}
	orders := &stubOrderProvider{}
	svc, _ := NewService(carts, orders, nil)

	stale := money("90.00")
	_, err := svc.Begin(context.Background(), BeginInput{
		CartID:           "cart-1",
		Email:            "jo@example.com",
		ShippingAddress:  mnAddress(),
		ExpectedSubtotal: &stale,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for stale subtotal, got %v", err)
	}
	if orders.orderCalls != 0 {
		t.Fatal("stale submission must not reach the provider")
	}
}

func TestBeginNoSalesTaxStateHasNoTaxLines(t *testing.T) {
	carts := &stubCartService{snapshot: &types.Cart{
		ID: "cart-1",
		Lines: []types.CartLine{
			{ID: "line-1", MerchandiseID: "var-1", Quantity: 1, UnitPrice: money("50.00")},
		},
	}}
	orders := &stubOrderProvider{}
	svc, _ := NewService(carts, orders, nil)

	addr := mnAddress()
	addr.ProvinceCode = "OR"
	result, err := svc.Begin(context.Background(), BeginInput{
		CartID:          "cart-1",
		Email:           "jo@example.com",
		ShippingAddress: addr,
	})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if got := result.Tax.Total.Formatted(); got != "50.00" {
		t.Fatalf("expected untaxed total 50.00, got %s", got)
	}
	if len(orders.lastOrder.Taxes) != 0 {
		t.Fatalf("expected no tax lines, got %d", len(orders.lastOrder.Taxes))
	}
}

func TestBeginValidation(t *testing.T) {
	carts := &stubCartService{snapshot: checkoutCart()}
	orders := &stubOrderProvider{}
	svc, _ := NewService(carts, orders, nil)

	if _, err := svc.Begin(context.Background(), BeginInput{Email: "jo@example.com", ShippingAddress: mnAddress()}); err == nil {
		t.Fatal("expected error for missing cart id")
	}
	if _, err := svc.Begin(context.Background(), BeginInput{CartID: "cart-1", ShippingAddress: mnAddress()}); err == nil {
		t.Fatal("expected error for missing email")
	}

	addr := mnAddress()
	addr.ProvinceCode = "Minnesota"
	if _, err := svc.Begin(context.Background(), BeginInput{CartID: "cart-1", Email: "jo@example.com", ShippingAddress: addr}); err == nil {
		t.Fatal("expected error for malformed province code")
	}
	if orders.customerCalls != 0 {
		t.Fatal("validation failures must not reach the provider")
	}
}

func TestBeginGoneCart(t *testing.T) {
	carts := &stubCartService{snapshot: nil}
	orders := &stubOrderProvider{}
	svc, _ := NewService(carts, orders, nil)

	_, err := svc.Begin(context.Background(), BeginInput{
		CartID:          "cart-404",
		Email:           "jo@example.com",
		ShippingAddress: mnAddress(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}
