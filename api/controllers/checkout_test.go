package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	checkoutsvc "github.com/greenhaven/storefront-backend/internal/checkout"
	"github.com/greenhaven/storefront-backend/internal/tax"
	pkgerrors "github.com/greenhaven/storefront-backend/pkg/errors"
	"github.com/greenhaven/storefront-backend/pkg/metrics"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

type stubTaxSync struct {
	snapshot *types.Cart
	err      error
	calls    int
}

func (s *stubTaxSync) SyncTax(context.Context, string, *types.ShippingAddress) (*types.Cart, error) {
	s.calls++
	return s.snapshot, s.err
}

type stubCheckout struct {
	result *checkoutsvc.Result
	err    error
	input  checkoutsvc.BeginInput
	calls  int
}

func (s *stubCheckout) Begin(_ context.Context, input checkoutsvc.BeginInput) (*checkoutsvc.Result, error) {
	s.calls++
	s.input = input
	return s.result, s.err
}

const checkoutPayload = `{
	"cart_id": "cart-1",
	"email": "buyer@example.com",
	"shipping_address": {
		"first_name": "Ada",
		"last_name": "Lovelace",
		"address1": "1 Main St",
		"city": "Saint Paul",
		"province_code": "MN",
		"postal_code": "55101",
		"country_code": "US"
	}
}`

func syncedCart() *types.Cart {
	return &types.Cart{ID: "cart-1"}
}

func postCheckout(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutBeginSyncsThenBegins(t *testing.T) {
	taxes := &stubTaxSync{snapshot: syncedCart()}
	svc := &stubCheckout{result: &checkoutsvc.Result{
		OrderID:     "order-1",
		RedirectURL: "https://pay.example.com/order-1",
		Tax:         tax.Calculation{},
	}}
	m := metrics.NewCheckoutMetrics(prometheus.NewRegistry())

	rec := postCheckout(t, CheckoutBegin(taxes, svc, m, nil), checkoutPayload)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if taxes.calls != 1 || svc.calls != 1 {
		t.Fatalf("expected one sync and one begin, got %d/%d", taxes.calls, svc.calls)
	}
	if svc.input.Email != "buyer@example.com" {
		t.Fatalf("unexpected email: %q", svc.input.Email)
	}

	var body struct {
		Data struct {
			OrderID     string `json:"order_id"`
			RedirectURL string `json:"redirect_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.RedirectURL != "https://pay.example.com/order-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCheckoutBeginStopsWhenSyncFails(t *testing.T) {
	taxes := &stubTaxSync{err: pkgerrors.New(pkgerrors.CodeDependency, "cart platform unavailable").WithStep("tax_sync")}
	svc := &stubCheckout{}

	rec := postCheckout(t, CheckoutBegin(taxes, svc, nil, nil), checkoutPayload)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no begin call, got %d", svc.calls)
	}
}

func TestCheckoutBeginVanishedCartIs404(t *testing.T) {
	taxes := &stubTaxSync{snapshot: nil}
	svc := &stubCheckout{}

	rec := postCheckout(t, CheckoutBegin(taxes, svc, nil, nil), checkoutPayload)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("expected no begin call, got %d", svc.calls)
	}
}

func TestCheckoutBeginRejectsInvalidEmail(t *testing.T) {
	taxes := &stubTaxSync{snapshot: syncedCart()}
	svc := &stubCheckout{}

	body := strings.Replace(checkoutPayload, "buyer@example.com", "not-an-email", 1)
	rec := postCheckout(t, CheckoutBegin(taxes, svc, nil, nil), body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if taxes.calls != 0 {
		t.Fatalf("expected no sync call, got %d", taxes.calls)
	}
}
