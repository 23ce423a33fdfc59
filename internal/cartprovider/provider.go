// Package cartprovider is a redis-backed cart platform. Cart state lives as
// a JSON document under a namespaced key; every operation rewrites the whole
// document and returns the resulting snapshot, mirroring the hosted cart
// APIs the services are written against.
package cartprovider

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/greenhaven/storefront-backend/internal/cart"
	"github.com/greenhaven/storefront-backend/pkg/db/models"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Idle carts expire on their own; any mutation refreshes the clock.
const cartTTL = 30 * 24 * time.Hour

// KV is the slice of the redis wrapper the provider uses.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// VariantLookup prices merchandise lines from the catalog.
type VariantLookup interface {
	FindVariant(ctx context.Context, merchandiseID string) (*models.ProductVariant, error)
}

// Provider implements cart.Provider over redis.
type Provider struct {
	kv      KV
	catalog VariantLookup
}

var _ cart.Provider = (*Provider)(nil)

// New builds a provider.
func New(kv KV, catalog VariantLookup) *Provider {
	return &Provider{kv: kv, catalog: catalog}
}

// document is the stored wire shape. Attributes travel as free-form string
// bags here and nowhere else; snapshots returned to callers carry the typed
// forms.
type document struct {
	ID         string            `json:"id"`
	Lines      []documentLine    `json:"lines"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type documentLine struct {
	ID             string            `json:"id"`
	MerchandiseID  string            `json:"merchandise_id"`
	Title          string            `json:"title"`
	Quantity       int               `json:"quantity"`
	UnitPriceCents int64             `json:"unit_price_cents"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// CreateCart creates a cart holding the given lines.
func (p *Provider) CreateCart(ctx context.Context, lines []cart.LineInput) (*types.Cart, error) {
	doc := &document{ID: uuid.NewString()}
	for _, input := range lines {
		line, err := p.resolveLine(ctx, input)
		if err != nil {
			return nil, err
		}
		doc.mergeLine(line)
	}
	if err := p.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// GetCart loads the cart, or a NOT_FOUND coded error when it is gone.
func (p *Provider) GetCart(ctx context.Context, cartID string) (*types.Cart, error) {
	doc, err := p.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// AddLines appends lines to the cart, merging quantity into an existing
// merchandise line when the merchandise id matches.
func (p *Provider) AddLines(ctx context.Context, cartID string, lines []cart.LineInput) (*types.Cart, error) {
	doc, err := p.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for _, input := range lines {
		line, err := p.resolveLine(ctx, input)
		if err != nil {
			return nil, err
		}
		doc.mergeLine(line)
	}
	if err := p.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// UpdateLine sets the quantity of an existing line.
func (p *Provider) UpdateLine(ctx context.Context, cartID, lineID string, quantity int) (*types.Cart, error) {
	doc, err := p.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range doc.Lines {
		if doc.Lines[i].ID == lineID {
			doc.Lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if err := p.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// RemoveLines drops the identified lines. Unknown line ids are ignored so
// removal stays safe to repeat.
func (p *Provider) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*types.Cart, error) {
	doc, err := p.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(lineIDs))
	for _, id := range lineIDs {
		drop[id] = true
	}
	kept := doc.Lines[:0]
	for _, line := range doc.Lines {
		if !drop[line.ID] {
			kept = append(kept, line)
		}
	}
	doc.Lines = kept
	if err := p.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// UpdateAttributes replaces the cart-level attribute bag.
func (p *Provider) UpdateAttributes(ctx context.Context, cartID string, attrs types.CartAttributes) (*types.Cart, error) {
	doc, err := p.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	doc.Attributes = attrs.Encode()
	if err := p.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc.snapshot(), nil
}

// resolveLine turns a line input into a stored line. Merchandise lines are
// priced from the catalog; lines carrying an explicit unit price (the
// synthetic tax line) bypass it.
func (p *Provider) resolveLine(ctx context.Context, input cart.LineInput) (documentLine, error) {
	line := documentLine{
		ID:         uuid.NewString(),
		Quantity:   input.Quantity,
		Attributes: input.Attributes.Encode(),
	}
	if input.UnitPrice != nil {
		line.MerchandiseID = input.MerchandiseID
		line.Title = input.Title
		line.UnitPriceCents = input.UnitPrice.Cents()
		return line, nil
	}
	variant, err := p.catalog.FindVariant(ctx, input.MerchandiseID)
	if err != nil {
		return documentLine{}, err
	}
	if !variant.Available {
		return documentLine{}, pkgerrors.New(pkgerrors.CodeConflict, "variant is not available for sale")
	}
	line.MerchandiseID = variant.ID.String()
	line.Title = variant.Title
	line.UnitPriceCents = variant.PriceCents
	return line, nil
}

func (p *Provider) load(ctx context.Context, cartID string) (*document, error) {
	raw, err := p.kv.Get(ctx, p.kv.CartKey(cartID))
	if errors.Is(err, redis.Nil) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart document")
	}
	var doc document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding cart document")
	}
	return &doc, nil
}

func (p *Provider) save(ctx context.Context, doc *document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encoding cart document")
	}
	if err := p.kv.Set(ctx, p.kv.CartKey(doc.ID), string(data), cartTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing cart document")
	}
	return nil
}

// mergeLine folds a new line into the document. Matching merchandise lines
// accumulate quantity; tax lines are always distinct entries.
func (d *document) mergeLine(line documentLine) {
	if line.Attributes[types.AttrTaxType] == "" {
		for i := range d.Lines {
			if d.Lines[i].MerchandiseID == line.MerchandiseID &&
				d.Lines[i].Attributes[types.AttrTaxType] == "" {
				d.Lines[i].Quantity += line.Quantity
				return
			}
		}
	}
	d.Lines = append(d.Lines, line)
}

func (d *document) snapshot() *types.Cart {
	snapshot := &types.Cart{
		ID:         d.ID,
		Attributes: types.DecodeCartAttributes(d.Attributes),
	}
	var subtotalCents, totalCents int64
	for _, line := range d.Lines {
		converted := types.CartLine{
			ID:            line.ID,
			MerchandiseID: line.MerchandiseID,
			Title:         line.Title,
			Quantity:      line.Quantity,
			UnitPrice:     types.USDFromCents(line.UnitPriceCents),
			Attributes:    types.DecodeLineAttributes(line.Attributes),
		}
		lineCents := line.UnitPriceCents * int64(line.Quantity)
		totalCents += lineCents
		if !converted.Attributes.IsTaxLine() {
			subtotalCents += lineCents
		}
		snapshot.Lines = append(snapshot.Lines, converted)
	}
	snapshot.Cost = types.CartCost{
		Subtotal: types.USDFromCents(subtotalCents),
		Total:    types.USDFromCents(totalCents),
	}
	return snapshot
}
