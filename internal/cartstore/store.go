package cartstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greenhaven/storefront-backend/internal/cart"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

// SnapshotPersistence holds the last-known cart snapshot as a single JSON
// blob under a fixed key, so a reload can resume without re-fetching. It is
// a hint only; the store always prefers a fresh provider read.
type SnapshotPersistence interface {
	SaveSnapshot(ctx context.Context, data []byte) error
	LoadSnapshot(ctx context.Context) ([]byte, error)
	ClearSnapshot(ctx context.Context) error
}

// Store holds the UI layer's view of the cart: exactly one snapshot (or
// none) plus loading/error flags. It carries no business logic beyond
// filtering; every mutation is delegated to the cart service and the
// returned snapshot replaces the state wholesale.
type Store struct {
	carts   cart.Service
	persist SnapshotPersistence

	current *types.Cart
	loading bool
	lastErr error
}

// New builds a store. Persistence is optional.
func New(carts cart.Service, persist SnapshotPersistence) (*Store, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	return &Store{carts: carts, persist: persist}, nil
}

// Current returns the held snapshot, or nil.
func (s *Store) Current() *types.Cart {
	return s.current
}

// Loading reports whether a delegated call is in flight.
func (s *Store) Loading() bool {
	return s.loading
}

// Err returns the error from the most recent delegated call, if any.
func (s *Store) Err() error {
	return s.lastErr
}

// ItemCount sums merchandise quantities. Synthetic tax lines never count, so
// the visible "N items" badge reflects purchasable goods only.
func (s *Store) ItemCount() int {
	if s.current == nil {
		return 0
	}
	count := 0
	for _, line := range s.current.MerchandiseLines() {
		count += line.Quantity
	}
	return count
}

// TotalPrice returns the provider-reported grand total. It is never
// recomputed locally.
func (s *Store) TotalPrice() (types.Money, bool) {
	if s.current == nil {
		return types.Money{}, false
	}
	return s.current.Cost.Total, true
}

// Hydrate restores the persisted snapshot hint, then prefers a fresh read
// from the provider. A cart the provider no longer knows clears the local
// reference.
func (s *Store) Hydrate(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	data, err := s.persist.LoadSnapshot(ctx)
	if err != nil || len(data) == 0 {
		return err
	}
	var hint types.Cart
	if err := json.Unmarshal(data, &hint); err != nil {
		// Corrupt hint: drop it rather than fail the session.
		_ = s.persist.ClearSnapshot(ctx)
		return nil
	}
	s.current = &hint
	return s.Refresh(ctx)
}

// Refresh replaces the held snapshot with a fresh provider read.
func (s *Store) Refresh(ctx context.Context) error {
	if s.current == nil {
		return nil
	}
	s.loading = true
	snapshot, err := s.carts.GetCart(ctx, s.current.ID)
	s.loading = false
	if err != nil {
		s.lastErr = err
		return err
	}
	if snapshot == nil {
		return s.clear(ctx)
	}
	return s.replace(ctx, snapshot)
}

// CreateCart delegates to the mutation service and adopts the new cart.
func (s *Store) CreateCart(ctx context.Context, merchandiseID string, quantity int) (*types.Cart, error) {
	return s.apply(ctx, func() (*types.Cart, error) {
		return s.carts.CreateCart(ctx, merchandiseID, quantity)
	})
}

// AddLine delegates to the mutation service.
func (s *Store) AddLine(ctx context.Context, merchandiseID string, quantity int) (*types.Cart, error) {
	if s.current == nil {
		return s.CreateCart(ctx, merchandiseID, quantity)
	}
	cartID := s.current.ID
	return s.apply(ctx, func() (*types.Cart, error) {
		return s.carts.AddLine(ctx, cartID, merchandiseID, quantity)
	})
}

// UpdateLineQuantity delegates to the mutation service, translating a
// non-positive quantity into a removal on the caller's behalf.
func (s *Store) UpdateLineQuantity(ctx context.Context, lineID string, quantity int) (*types.Cart, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no active cart")
	}
	cartID := s.current.ID
	if quantity < 1 {
		return s.apply(ctx, func() (*types.Cart, error) {
			return s.carts.RemoveLines(ctx, cartID, []string{lineID})
		})
	}
	return s.apply(ctx, func() (*types.Cart, error) {
		return s.carts.UpdateLineQuantity(ctx, cartID, lineID, quantity)
	})
}

// RemoveLines delegates to the mutation service.
func (s *Store) RemoveLines(ctx context.Context, lineIDs []string) (*types.Cart, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no active cart")
	}
	cartID := s.current.ID
	return s.apply(ctx, func() (*types.Cart, error) {
		return s.carts.RemoveLines(ctx, cartID, lineIDs)
	})
}

// Replace adopts an externally produced snapshot, e.g. the result of a tax
// synchronization pass.
func (s *Store) Replace(ctx context.Context, snapshot *types.Cart) error {
	if snapshot == nil {
		return s.clear(ctx)
	}
	return s.replace(ctx, snapshot)
}

// Clear drops the local cart reference and its persisted hint.
func (s *Store) Clear(ctx context.Context) error {
	return s.clear(ctx)
}

func (s *Store) apply(ctx context.Context, op func() (*types.Cart, error)) (*types.Cart, error) {
	s.loading = true
	snapshot, err := op()
	s.loading = false
	if err != nil {
		s.lastErr = err
		return nil, err
	}
	s.lastErr = nil
	if err := s.replace(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *Store) replace(ctx context.Context, snapshot *types.Cart) error {
	s.current = snapshot
	if s.persist == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.persist.SaveSnapshot(ctx, data)
}

func (s *Store) clear(ctx context.Context) error {
	s.current = nil
	s.lastErr = nil
	if s.persist == nil {
		return nil
	}
	return s.persist.ClearSnapshot(ctx)
}
