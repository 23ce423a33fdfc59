package cart

import (
	"context"

	"github.com/greenhaven/storefront-backend/pkg/types"
)

// LineInput describes one line to place on a cart. Merchandise lines carry
// only a merchandise id and quantity and are priced by the provider from the
// catalog; synthetic lines supply an explicit unit price and attributes.
type LineInput struct {
	MerchandiseID string
	Title         string
	Quantity      int
	UnitPrice     *types.Money
	Attributes    types.LineAttributes
}

// Provider is the external cart platform. Every operation is a single round
// trip returning the full authoritative snapshot; there is no local caching
// or optimistic merge. Implementations signal a missing cart with a NOT_FOUND
// coded error.
type Provider interface {
	CreateCart(ctx context.Context, lines []LineInput) (*types.Cart, error)
	GetCart(ctx context.Context, cartID string) (*types.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []LineInput) (*types.Cart, error)
	UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*types.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*types.Cart, error)
	UpdateAttributes(ctx context.Context, cartID string, attrs types.CartAttributes) (*types.Cart, error)
}
