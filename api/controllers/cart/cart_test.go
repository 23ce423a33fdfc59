package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/greenhaven/storefront-backend/pkg/types"
)

type stubCartService struct {
	snapshot *types.Cart
	err      error

	lastCartID   string
	lastLineID   string
	lastQuantity int
	lastLineIDs  []string
}

func (s *stubCartService) CreateCart(_ context.Context, merchandiseID string, quantity int) (*types.Cart, error) {
	s.lastCartID = ""
	s.lastQuantity = quantity
	return s.snapshot, s.err
}

func (s *stubCartService) AddLine(_ context.Context, cartID, _ string, quantity int) (*types.Cart, error) {
	s.lastCartID = cartID
	s.lastQuantity = quantity
	return s.snapshot, s.err
}

func (s *stubCartService) UpdateLineQuantity(_ context.Context, cartID, lineID string, quantity int) (*types.Cart, error) {
	s.lastCartID = cartID
	s.lastLineID = lineID
	s.lastQuantity = quantity
	return s.snapshot, s.err
}

func (s *stubCartService) RemoveLines(_ context.Context, cartID string, lineIDs []string) (*types.Cart, error) {
	s.lastCartID = cartID
	s.lastLineIDs = lineIDs
	return s.snapshot, s.err
}

func (s *stubCartService) GetCart(_ context.Context, cartID string) (*types.Cart, error) {
	s.lastCartID = cartID
	return s.snapshot, s.err
}

type stubTaxSync struct {
	snapshot *types.Cart
	err      error
	lastAddr *types.ShippingAddress
}

func (s *stubTaxSync) SyncTax(_ context.Context, _ string, addr *types.ShippingAddress) (*types.Cart, error) {
	s.lastAddr = addr
	return s.snapshot, s.err
}

func sampleCart() *types.Cart {
	return &types.Cart{
		ID: "cart-1",
		Lines: []types.CartLine{
			{ID: "line-1", MerchandiseID: "var-1", Quantity: 2, UnitPrice: types.USDFromCents(1200)},
		},
		Cost: types.CartCost{
			Subtotal: types.USDFromCents(2400),
			Total:    types.USDFromCents(2400),
		},
	}
}

func routeRequest(t *testing.T, handler http.HandlerFunc, pattern, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Method(method, pattern, handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestCartCreateReturnsSnapshot(t *testing.T) {
	svc := &stubCartService{snapshot: sampleCart()}

	rec := routeRequest(t, CartCreate(svc, nil), "/cart", http.MethodPost, "/cart",
		`{"merchandise_id":"var-1","quantity":2}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastQuantity != 2 {
		t.Fatalf("expected quantity 2, got %d", svc.lastQuantity)
	}

	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["id"] != "cart-1" {
		t.Fatalf("unexpected cart id: %v", data["id"])
	}
}

func TestCartCreateRejectsMissingMerchandise(t *testing.T) {
	svc := &stubCartService{snapshot: sampleCart()}

	rec := routeRequest(t, CartCreate(svc, nil), "/cart", http.MethodPost, "/cart", `{"quantity":2}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartFetchUsesPathParam(t *testing.T) {
	svc := &stubCartService{snapshot: sampleCart()}

	rec := routeRequest(t, CartFetch(svc, nil), "/cart/{cartId}", http.MethodGet, "/cart/cart-9", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastCartID != "cart-9" {
		t.Fatalf("expected cart-9, got %q", svc.lastCartID)
	}
}

func TestCartUpdateLineSetsQuantity(t *testing.T) {
	svc := &stubCartService{snapshot: sampleCart()}

	rec := routeRequest(t, CartUpdateLine(svc, nil), "/cart/{cartId}/lines/{lineId}",
		http.MethodPatch, "/cart/cart-1/lines/line-1", `{"quantity":3}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastLineID != "line-1" || svc.lastQuantity != 3 {
		t.Fatalf("unexpected call: line=%q qty=%d", svc.lastLineID, svc.lastQuantity)
	}
}

func TestCartUpdateLineZeroQuantityRemoves(t *testing.T) {
	svc := &stubCartService{snapshot: sampleCart()}

	rec := routeRequest(t, CartUpdateLine(svc, nil), "/cart/{cartId}/lines/{lineId}",
		http.MethodPatch, "/cart/cart-1/lines/line-1", `{"quantity":0}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.lastLineIDs) != 1 || svc.lastLineIDs[0] != "line-1" {
		t.Fatalf("expected removal of line-1, got %v", svc.lastLineIDs)
	}
}

func TestCartRemoveLinesRequiresIDs(t *testing.T) {
	svc := &stubCartService{snapshot: sampleCart()}

	rec := routeRequest(t, CartRemoveLines(svc, nil), "/cart/{cartId}/lines",
		http.MethodDelete, "/cart/cart-1/lines", `{"line_ids":[]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartTaxSyncPassesAddress(t *testing.T) {
	svc := &stubTaxSync{snapshot: sampleCart()}

	payload := `{"shipping_address":{"first_name":"Ada","last_name":"Lovelace","address1":"1 Main St","city":"Saint Paul","province_code":"MN","postal_code":"55101","country_code":"US"}}`
	rec := routeRequest(t, CartTaxSync(svc, nil), "/cart/{cartId}/tax-sync",
		http.MethodPost, "/cart/cart-1/tax-sync", payload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastAddr == nil || svc.lastAddr.ProvinceCode != "MN" {
		t.Fatalf("expected MN address, got %+v", svc.lastAddr)
	}
}

func TestCartTaxSyncGoneCartIs404(t *testing.T) {
	svc := &stubTaxSync{snapshot: nil}

	rec := routeRequest(t, CartTaxSync(svc, nil), "/cart/{cartId}/tax-sync",
		http.MethodPost, "/cart/cart-1/tax-sync", `{}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartFetchGoneCartIs404(t *testing.T) {
	svc := &stubCartService{snapshot: nil}

	rec := routeRequest(t, CartFetch(svc, nil), "/cart/{cartId}", http.MethodGet, "/cart/cart-gone", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("unexpected error code %q", body.Error.Code)
	}
}
