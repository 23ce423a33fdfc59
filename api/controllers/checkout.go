package controllers

import (
	"net/http"

	"github.com/greenhaven/storefront-backend/api/responses"
	"github.com/greenhaven/storefront-backend/api/validators"
	checkoutsvc "github.com/greenhaven/storefront-backend/internal/checkout"
	"github.com/greenhaven/storefront-backend/internal/taxsync"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/logger"
	"github.com/greenhaven/storefront-backend/pkg/metrics"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

// CheckoutRequest is the buyer's submission: the cart to convert, contact
// email, shipping destination, and the subtotal the storefront displayed.
type CheckoutRequest struct {
	CartID           string                `json:"cart_id" validate:"required"`
	Email            string                `json:"email" validate:"required,email"`
	ShippingAddress  types.ShippingAddress `json:"shipping_address" validate:"required"`
	ExpectedSubtotal *types.Money          `json:"expected_subtotal,omitempty"`
}

// CheckoutBegin runs a final tax synchronization against the submitted
// address and then hands the cart to the checkout orchestrator. The sync
// happens first so the order the buyer pays for carries the excise state
// their destination requires, not whatever an earlier estimate left behind.
func CheckoutBegin(taxes taxsync.Service, svc checkoutsvc.Service, m *metrics.CheckoutMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || taxes == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload CheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if m != nil {
			m.IncStarted()
		}

		snapshot, err := taxes.SyncTax(r.Context(), payload.CartID, &payload.ShippingAddress)
		if err != nil {
			observeFailure(m, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if snapshot == nil {
			observeFailure(m, nil)
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found"))
			return
		}

		result, err := svc.Begin(r.Context(), checkoutsvc.BeginInput{
			CartID:           payload.CartID,
			Email:            payload.Email,
			ShippingAddress:  payload.ShippingAddress,
			ExpectedSubtotal: payload.ExpectedSubtotal,
		})
		if err != nil {
			observeFailure(m, err)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if m != nil {
			m.IncCompleted()
		}
		responses.WriteSuccess(w, result)
	}
}

func observeFailure(m *metrics.CheckoutMetrics, err error) {
	if m == nil {
		return
	}
	step := "unknown"
	if coded := pkgerrors.As(err); coded != nil {
		if details, ok := coded.Details().(map[string]any); ok {
			if s, ok := details["step"].(string); ok && s != "" {
				step = s
			}
		}
	}
	m.IncFailed(step)
}
