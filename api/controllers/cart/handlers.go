package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/greenhaven/storefront-backend/api/responses"
	"github.com/greenhaven/storefront-backend/api/validators"
	cartsvc "github.com/greenhaven/storefront-backend/internal/cart"
	"github.com/greenhaven/storefront-backend/internal/taxsync"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/logger"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

// CartCreate makes a new cart seeded with one merchandise line.
func CartCreate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload CreateCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.CreateCart(r.Context(), payload.MerchandiseID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, snapshot)
	}
}

// CartFetch returns the live provider snapshot for one cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		snapshot, err := svc.GetCart(r.Context(), chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if snapshot == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found"))
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}

// CartAddLines appends a merchandise line; the provider merges duplicates.
func CartAddLines(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload AddLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.AddLine(r.Context(), chi.URLParam(r, "cartId"), payload.MerchandiseID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}

// CartUpdateLine changes one line's quantity. The mutation service refuses
// sub-minimum quantities, so zero is translated into a removal here.
func CartUpdateLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload UpdateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID := chi.URLParam(r, "cartId")
		lineID := chi.URLParam(r, "lineId")

		var snapshot *types.Cart
		var err error
		if payload.Quantity <= 0 {
			snapshot, err = svc.RemoveLines(r.Context(), cartID, []string{lineID})
		} else {
			snapshot, err = svc.UpdateLineQuantity(r.Context(), cartID, lineID, payload.Quantity)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}

// CartRemoveLines deletes the named lines; unknown ids are ignored.
func CartRemoveLines(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload RemoveLinesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.RemoveLines(r.Context(), chi.URLParam(r, "cartId"), payload.LineIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}

// CartTaxSync reconciles the cart's synthetic excise line against the given
// shipping address. A vanished cart yields 404 rather than an empty body.
func CartTaxSync(svc taxsync.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tax sync service unavailable"))
			return
		}

		var payload TaxSyncRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.SyncTax(r.Context(), chi.URLParam(r, "cartId"), payload.ShippingAddress)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if snapshot == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found"))
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
