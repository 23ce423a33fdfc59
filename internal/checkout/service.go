package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenhaven/storefront-backend/internal/cart"
	"github.com/greenhaven/storefront-backend/internal/tax"
	"github.com/greenhaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/logger"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

// StepCheckout tags errors raised by the orchestrator.
const StepCheckout = "checkout"

// BeginInput carries everything collected during the Information step.
// ExpectedSubtotal is the total the buyer saw; the orchestrator re-derives
// the real subtotal from the live cart and rejects stale submissions.
type BeginInput struct {
	CartID           string
	Email            string
	ShippingAddress  types.ShippingAddress
	ExpectedSubtotal *types.Money
}

// Result is the outcome of a successful Begin: the provider order, the
// computed tax, and the hosted payment page to redirect the buyer to. The
// returned step is always Payment; everything past the redirect belongs to
// the payment provider.
type Result struct {
	OrderID     string             `json:"order_id"`
	Tax         tax.Calculation    `json:"tax"`
	RedirectURL string             `json:"redirect_url"`
	Step        enums.CheckoutStep `json:"step"`
}

// Service orchestrates the two-provider checkout handoff as a saga: the cart
// platform and the payment platform share no transaction, so each step is
// individually safe. Customer creation is non-fatal; order creation is the
// one fatal step the buyer must resubmit on failure.
type Service interface {
	Begin(ctx context.Context, input BeginInput) (*Result, error)
}

type service struct {
	carts  cart.Service
	orders OrderProvider
	logger *logger.Logger
}

// NewService builds the checkout orchestrator.
func NewService(carts cart.Service, orders OrderProvider, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order provider required")
	}
	return &service{carts: carts, orders: orders, logger: logg}, nil
}

func (s *service) Begin(ctx context.Context, input BeginInput) (*Result, error) {
	if strings.TrimSpace(input.CartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required").WithStep(StepCheckout)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").WithStep(StepCheckout)
	}
	if err := input.ShippingAddress.Validate(); err != nil {
		return nil, err
	}
	if s.logger != nil {
		ctx = s.logger.WithCartID(ctx, input.CartID)
	}

	snapshot, err := s.carts.GetCart(ctx, input.CartID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart no longer exists").WithStep(StepCheckout)
	}

	lines := snapshot.MerchandiseLines()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no merchandise").WithStep(StepCheckout)
	}

	// The subtotal is derived from live line prices, never trusted from
	// client state. A mismatch means the buyer is submitting a stale total.
	subtotal := snapshot.MerchandiseSubtotal()
	if input.ExpectedSubtotal != nil && input.ExpectedSubtotal.Cents() != subtotal.Cents() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart totals changed, refresh and resubmit").WithStep(StepCheckout)
	}

	calc := tax.Calculate(subtotal, input.ShippingAddress.Jurisdiction())

	// Non-fatal: a buyer without a linked customer record can still pay.
	customerID, err := s.orders.CreateCustomer(ctx, CustomerInput{
		Email:     input.Email,
		FirstName: input.ShippingAddress.FirstName,
		LastName:  input.ShippingAddress.LastName,
		Address:   input.ShippingAddress,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error(ctx, "customer record creation failed, continuing checkout", err)
		}
		customerID = ""
	}

	order, err := s.orders.CreateOrder(ctx, OrderInput{
		ReferenceID: input.CartID,
		CustomerID:  customerID,
		Email:       input.Email,
		Lines:       toOrderLines(lines),
		Taxes:       toOrderTaxes(calc),
		Address:     input.ShippingAddress,
	})
	if err != nil {
		// Fatal: surfaced verbatim, no retry. The buyer resubmits.
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed.WithStep(StepCheckout)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order creation failed").WithStep(StepCheckout)
	}

	if s.logger != nil {
		s.logger.Info(s.logger.WithOrderID(ctx, order.OrderID), "checkout handed off to payment provider")
	}

	return &Result{
		OrderID:     order.OrderID,
		Tax:         calc,
		RedirectURL: order.RedirectURL,
		Step:        enums.CheckoutStepPayment,
	}, nil
}

func toOrderLines(lines []types.CartLine) []OrderLineItem {
	items := make([]OrderLineItem, 0, len(lines))
	for _, line := range lines {
		name := line.Title
		if name == "" {
			name = line.MerchandiseID
		}
		items = append(items, OrderLineItem{
			Name:           name,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPrice.Cents(),
		})
	}
	return items
}

// toOrderTaxes emits one percentage-scoped tax per nonzero component.
func toOrderTaxes(calc tax.Calculation) []OrderTaxLine {
	var taxes []OrderTaxLine
	for _, component := range tax.Breakdown(calc) {
		taxes = append(taxes, OrderTaxLine{
			Name:        component.Label,
			RatePercent: component.RatePercent,
		})
	}
	return taxes
}
