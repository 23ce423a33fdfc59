package taxsync

import (
	"context"
	"fmt"
	"strings"

	"github.com/greenhaven/storefront-backend/internal/cart"
	"github.com/greenhaven/storefront-backend/internal/tax"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/logger"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

// StepTaxSync tags errors raised during synchronization so callers know the
// cart totals may be stale.
const StepTaxSync = "tax_sync"

// SyntheticLineTitle is the display name of the excise tax line.
const SyntheticLineTitle = "Hemp Excise Tax"

// syntheticMerchandiseID marks the tax line's merchandise reference. It never
// resolves against the catalog; the line carries its own unit price.
const syntheticMerchandiseID = "synthetic:excise-tax"

// TaxTypeValue is the tag written into the synthetic line's attribute bag so
// the next synchronization pass can identify it.
var TaxTypeValue = strings.ToLower(tax.ExciseJurisdiction) + "_excise_tax"

// Service keeps a cart's synthetic tax representation consistent with its
// current subtotal and shipping jurisdiction. Synchronization is idempotent
// and re-entrant rather than transactional: the provider offers no multi-step
// transaction primitive, so a failed pass leaves a state the next pass heals.
type Service interface {
	SyncTax(ctx context.Context, cartID string, addr *types.ShippingAddress) (*types.Cart, error)
}

type service struct {
	provider cart.Provider
	logger   *logger.Logger
}

// NewService builds the synchronizer over the external cart provider.
func NewService(provider cart.Provider, logg *logger.Logger) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	return &service{provider: provider, logger: logg}, nil
}

// SyncTax reconciles the cart's synthetic excise line and tax attributes.
// The remove-then-conditionally-add order is load-bearing: removing all
// tagged lines first makes double-charging impossible even when two syncs
// race, because removal is idempotent and the single add only happens after
// a fresh subtotal read. Returns (nil, nil) when the cart no longer exists.
func (s *service) SyncTax(ctx context.Context, cartID string, addr *types.ShippingAddress) (*types.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required").WithStep(StepTaxSync)
	}
	if s.logger != nil {
		ctx = s.logger.WithCartID(ctx, cartID)
	}

	snapshot, err := s.provider.GetCart(ctx, cartID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil
		}
		return nil, tagStep(err)
	}

	// Step 1: strip any previously added synthetic lines so the recomputation
	// starts from merchandise only.
	if taxLines := snapshot.TaxLines(); len(taxLines) > 0 {
		ids := make([]string, 0, len(taxLines))
		for _, line := range taxLines {
			ids = append(ids, line.ID)
		}
		snapshot, err = s.provider.RemoveLines(ctx, cartID, ids)
		if err != nil {
			return nil, tagStep(err)
		}
	}

	// Steps 2-3: record eligibility; ineligible or unknown destinations stop
	// here with no synthetic line.
	if addr == nil || !tax.ExciseEligible(addr.Jurisdiction()) {
		snapshot, err = s.provider.UpdateAttributes(ctx, cartID, types.CartAttributes{ExciseEligible: false})
		if err != nil {
			return nil, tagStep(err)
		}
		return snapshot, nil
	}

	// Step 4: re-fetch so the subtotal reflects only real merchandise, even
	// if another sync touched the cart between our calls.
	snapshot, err = s.provider.GetCart(ctx, cartID)
	if err != nil {
		return nil, tagStep(err)
	}

	subtotal := snapshot.MerchandiseSubtotal()
	calc := tax.Calculate(subtotal, addr.Jurisdiction())

	snapshot, err = s.provider.UpdateAttributes(ctx, cartID, types.CartAttributes{
		ExciseEligible: true,
		ExciseState:    calc.Jurisdiction,
		ExciseAmount:   calc.ExciseTaxAmount.Formatted(),
		ExciseRate:     calc.ExciseTaxRate.String(),
	})
	if err != nil {
		return nil, tagStep(err)
	}

	// Step 5: an empty cart gets no tax line even in an eligible state.
	if subtotal.IsZero() {
		return snapshot, nil
	}

	// Step 6: exactly one tagged line carrying the amount through the
	// provider for downstream fulfillment.
	amount := types.USDFromCents(calc.ExciseTaxAmount.Cents())
	snapshot, err = s.provider.AddLines(ctx, cartID, []cart.LineInput{{
		MerchandiseID: syntheticMerchandiseID,
		Title:         SyntheticLineTitle,
		Quantity:      1,
		UnitPrice:     &amount,
		Attributes: types.LineAttributes{
			TaxType:   TaxTypeValue,
			TaxAmount: calc.ExciseTaxAmount.Formatted(),
			TaxRate:   calc.ExciseTaxRate.String(),
		},
	}})
	if err != nil {
		return nil, tagStep(err)
	}

	if s.logger != nil {
		s.logger.Info(s.logger.WithFields(ctx, map[string]any{
			"excise_amount": calc.ExciseTaxAmount.Formatted(),
			"jurisdiction":  calc.Jurisdiction,
		}), "cart tax synchronized")
	}
	return snapshot, nil
}

func tagStep(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.WithStep(StepTaxSync)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart provider call failed during tax sync").WithStep(StepTaxSync)
}
