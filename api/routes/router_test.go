package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkoutsvc "github.com/greenhaven/storefront-backend/internal/checkout"
	"github.com/greenhaven/storefront-backend/pkg/config"
	"github.com/greenhaven/storefront-backend/pkg/metrics"
	"github.com/greenhaven/storefront-backend/pkg/types"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubLimiter struct{}

func (stubLimiter) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return true, 1, nil
}

type routerCartService struct {
	snapshot *types.Cart
}

func (s *routerCartService) CreateCart(context.Context, string, int) (*types.Cart, error) {
	return s.snapshot, nil
}

func (s *routerCartService) AddLine(context.Context, string, string, int) (*types.Cart, error) {
	return s.snapshot, nil
}

func (s *routerCartService) UpdateLineQuantity(context.Context, string, string, int) (*types.Cart, error) {
	return s.snapshot, nil
}

func (s *routerCartService) RemoveLines(context.Context, string, []string) (*types.Cart, error) {
	return s.snapshot, nil
}

func (s *routerCartService) GetCart(context.Context, string) (*types.Cart, error) {
	return s.snapshot, nil
}

type routerTaxSync struct {
	snapshot *types.Cart
}

func (s *routerTaxSync) SyncTax(context.Context, string, *types.ShippingAddress) (*types.Cart, error) {
	return s.snapshot, nil
}

type routerCheckout struct{}

func (routerCheckout) Begin(context.Context, checkoutsvc.BeginInput) (*checkoutsvc.Result, error) {
	return &checkoutsvc.Result{OrderID: "order-1", RedirectURL: "https://pay.example.com/order-1"}, nil
}

func testDeps(t *testing.T) Deps {
	t.Helper()

	reg := prometheus.NewRegistry()
	snapshot := &types.Cart{ID: "cart-1"}
	return Deps{
		Config:          &config.Config{App: config.AppConfig{Env: "dev"}, RateLimit: config.RateLimitConfig{Window: time.Minute, Limit: 100}},
		DBPinger:        stubPinger{},
		RedisPinger:     stubPinger{},
		RateLimiter:     stubLimiter{},
		CartService:     &routerCartService{snapshot: snapshot},
		TaxSyncService:  &routerTaxSync{snapshot: snapshot},
		CheckoutService: routerCheckout{},
		HTTPMetrics:     metrics.NewHTTPMetrics(reg),
		CheckoutMetrics: metrics.NewCheckoutMetrics(reg),
		MetricsHandler:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := NewRouter(testDeps(t))

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouterReadyDegradedWhenRedisDown(t *testing.T) {
	deps := testDeps(t)
	deps.RedisPinger = stubPinger{err: context.DeadlineExceeded}
	router := NewRouter(deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRouterCartRoutes(t *testing.T) {
	router := NewRouter(testDeps(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/cart-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data types.Cart `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.ID != "cart-1" {
		t.Fatalf("unexpected cart id %q", body.Data.ID)
	}
}

func TestRouterCheckoutRoute(t *testing.T) {
	router := NewRouter(testDeps(t))

	payload := `{
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

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := NewRouter(testDeps(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 warming request, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected http_requests_total in metrics output")
	}
}
