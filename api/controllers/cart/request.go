package cart

import "github.com/greenhaven/storefront-backend/pkg/types"

// CreateCartRequest seeds a new cart with its first merchandise line.
type CreateCartRequest struct {
	MerchandiseID string `json:"merchandise_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

// AddLineRequest appends one merchandise line to an existing cart.
type AddLineRequest struct {
	MerchandiseID string `json:"merchandise_id" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

// UpdateLineRequest sets the quantity of one line. Zero removes the line.
type UpdateLineRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// RemoveLinesRequest deletes the named lines from the cart.
type RemoveLinesRequest struct {
	LineIDs []string `json:"line_ids" validate:"required,min=1,dive,required"`
}

// TaxSyncRequest carries the shipping address whose jurisdiction drives the
// synthetic excise line. A nil address clears the tax state.
type TaxSyncRequest struct {
	ShippingAddress *types.ShippingAddress `json:"shipping_address"`
}
