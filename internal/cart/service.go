package cart

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

// StepCartMutation tags errors raised by this service so the UI can present
// mutation-specific messaging.
const StepCartMutation = "cart_mutation"

// Service exposes the cart mutation operations. Each call validates locally,
// performs one provider round trip, and returns the fresh snapshot that
// replaces any prior local copy.
type Service interface {
	CreateCart(ctx context.Context, merchandiseID string, quantity int) (*types.Cart, error)
	AddLine(ctx context.Context, cartID, merchandiseID string, quantity int) (*types.Cart, error)
	UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (*types.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*types.Cart, error)
	GetCart(ctx context.Context, cartID string) (*types.Cart, error)
}

type service struct {
	provider Provider
}

// NewService builds the mutation service over the external cart provider.
func NewService(provider Provider) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	return &service{provider: provider}, nil
}

func (s *service) CreateCart(ctx context.Context, merchandiseID string, quantity int) (*types.Cart, error) {
	if strings.TrimSpace(merchandiseID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required").WithStep(StepCartMutation)
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").WithStep(StepCartMutation)
	}

	snapshot, err := s.provider.CreateCart(ctx, []LineInput{{MerchandiseID: merchandiseID, Quantity: quantity}})
	if err != nil {
		return nil, tagStep(err)
	}
	return snapshot, nil
}

func (s *service) AddLine(ctx context.Context, cartID, merchandiseID string, quantity int) (*types.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required").WithStep(StepCartMutation)
	}
	if strings.TrimSpace(merchandiseID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required").WithStep(StepCartMutation)
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").WithStep(StepCartMutation)
	}

	snapshot, err := s.provider.AddLines(ctx, cartID, []LineInput{{MerchandiseID: merchandiseID, Quantity: quantity}})
	if err != nil {
		return nil, tagStep(err)
	}
	return snapshot, nil
}

// UpdateLineQuantity sets a line's quantity. Translating a non-positive
// quantity into a removal is the caller's responsibility; this service does
// not auto-convert.
func (s *service) UpdateLineQuantity(ctx context.Context, cartID, lineID string, quantity int) (*types.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required").WithStep(StepCartMutation)
	}
	if strings.TrimSpace(lineID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required").WithStep(StepCartMutation)
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1; remove the line instead").WithStep(StepCartMutation)
	}

	snapshot, err := s.provider.UpdateLine(ctx, cartID, lineID, quantity)
	if err != nil {
		return nil, tagStep(err)
	}
	return snapshot, nil
}

func (s *service) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*types.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required").WithStep(StepCartMutation)
	}
	if len(lineIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line ids are required").WithStep(StepCartMutation)
	}
	for _, id := range lineIDs {
		if strings.TrimSpace(id) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line ids must be non-empty").WithStep(StepCartMutation)
		}
	}

	snapshot, err := s.provider.RemoveLines(ctx, cartID, lineIDs)
	if err != nil {
		return nil, tagStep(err)
	}
	return snapshot, nil
}

// GetCart resolves the current snapshot. A cart the provider no longer knows
// is a soft signal: callers receive (nil, nil) and must drop their local
// reference rather than treat it as a failure.
func (s *service) GetCart(ctx context.Context, cartID string) (*types.Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required").WithStep(StepCartMutation)
	}

	snapshot, err := s.provider.GetCart(ctx, cartID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, nil
		}
		return nil, tagStep(err)
	}
	return snapshot, nil
}

func tagStep(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.WithStep(StepCartMutation)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart provider call failed").WithStep(StepCartMutation)
}
