package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"quickmart/internal/pkg/i18n"
	"quickmart/internal/service/checkout/application"
	"quickmart/internal/service/checkout/domain"
	printdomain "quickmart/internal/service/print/domain"
)

type memCartRepo struct{ items []domain.CartItem }

func (r *memCartRepo) Load(ctx context.Context) ([]domain.CartItem, error) { return r.items, nil }
func (r *memCartRepo) Save(ctx context.Context, items []domain.CartItem) error {
	r.items = items
	return nil
}

type memOrderRepo struct{ orders []domain.Order }

func (r *memOrderRepo) Save(ctx context.Context, order *domain.Order) error {
	r.orders = append([]domain.Order{*order}, r.orders...)
	return nil
}

func (r *memOrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.orders, nil
}

type passRuleEngine struct{}

func (passRuleEngine) Evaluate(rule string, fact domain.Fact) (bool, error) {
	return rule == "" || fact.Subtotal >= 50.0, nil
}

type stubPrinter struct{ err error }

func (p *stubPrinter) PrintReceipt(ctx context.Context, document string) error { return p.err }

func (p *stubPrinter) AppVersion(ctx context.Context) (string, error) { return "1.4.2", nil }

func (p *stubPrinter) Platform(ctx context.Context) (string, error) { return "linux", nil }


func newTestServer(t *testing.T, printer *stubPrinter) *httptest.Server {
	t.Helper()
	catalog, err := domain.LoadCatalog()
	require.NoError(t, err)
	labels, err := i18n.Load()
	require.NoError(t, err)

	coupons := domain.NewCouponTable(domain.BuiltinCoupons(), []domain.Coupon{
		{Code: "BIGCART", Discount: 0.25, Rule: "subtotal >= 50.0"},
	})
	service := application.NewCheckoutService(
		catalog, coupons, passRuleEngine{},
		&memCartRepo{}, &memOrderRepo{}, nil,
		noop.NewTracerProvider().Tracer("test"),
	)
	renderer, err := application.NewReceiptRenderer(labels)
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewCheckoutHandler(service, renderer, printer, labels).RegisterRoutes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestProductsEndpoint(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp, err := http.Get(server.URL + "/api/products?category=Dairy")
	require.NoError(t, err)
	var products []application.ProductView
	decodeBody(t, resp, &products)
	assert.Len(t, products, 3)

	resp, err = http.Get(server.URL + "/api/products?lang=es")
	require.NoError(t, err)
	decodeBody(t, resp, &products)
	assert.Equal(t, "Manzanas Frescas", products[0].Name)
}

func TestBarcodeEndpoint(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp, err := http.Get(server.URL + "/api/products/barcode?code=2234567890123")
	require.NoError(t, err)
	var product application.ProductView
	decodeBody(t, resp, &product)
	assert.Equal(t, "Organic Milk", product.Name)

	resp, err = http.Get(server.URL + "/api/products/barcode?code=0000000000000")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartFlow(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp := postJSON(t, server.URL+"/api/cart/items", map[string]string{"productId": "1"})
	var added application.AddItemResult
	decodeBody(t, resp, &added)
	assert.True(t, added.NewLine)

	resp = postJSON(t, server.URL+"/api/cart/quantity", map[string]interface{}{"productId": "1", "delta": 2})
	var cart application.CartView
	decodeBody(t, resp, &cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	resp = postJSON(t, server.URL+"/api/cart/clear", map[string]string{})
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)
}

func TestCouponErrorStatusCodes(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	// 未知券码 -> 404
	resp := postJSON(t, server.URL+"/api/coupon", map[string]string{"code": "BOGUS"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// 规则不满足 -> 403
	r := postJSON(t, server.URL+"/api/cart/items", map[string]string{"productId": "1"})
	r.Body.Close()
	resp = postJSON(t, server.URL+"/api/coupon", map[string]string{"code": "BIGCART"})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCouponErrorMessageLocalized(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp := postJSON(t, server.URL+"/api/coupon?lang=fr", map[string]string{"code": "BOGUS"})
	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Code promo invalide", body["error"])
}

func TestCheckoutEmptyCartConflict(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp := postJSON(t, server.URL+"/api/checkout", map[string]string{"paymentMethod": "card"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCheckoutHappyPath(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	r := postJSON(t, server.URL+"/api/cart/items", map[string]string{"productId": "1"})
	r.Body.Close()

	resp := postJSON(t, server.URL+"/api/checkout", map[string]string{"paymentMethod": "cash"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Order   domain.Order `json:"order"`
		Printed bool         `json:"printed"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Order.ID)
	assert.True(t, body.Printed)

	// 订单出现在历史里
	ordersResp, err := http.Get(server.URL + "/api/orders")
	require.NoError(t, err)
	var orders []application.OrderView
	decodeBody(t, ordersResp, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, body.Order.ID, orders[0].ID)
	assert.Equal(t, "cash", orders[0].PaymentMethod)
	assert.NotEmpty(t, orders[0].Date)
	require.Len(t, orders[0].Items, 1)
}

func TestCheckoutSucceedsEvenWhenPrintFails(t *testing.T) {
	server := newTestServer(t, &stubPrinter{err: printdomain.ErrNoPrinters})

	r := postJSON(t, server.URL+"/api/cart/items", map[string]string{"productId": "1"})
	r.Body.Close()

	resp := postJSON(t, server.URL+"/api/checkout", map[string]string{"paymentMethod": "card"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Printed bool `json:"printed"`
	}
	decodeBody(t, resp, &body)
	assert.False(t, body.Printed)
}

func TestReprintStatusCodes(t *testing.T) {
	t.Run("timeout maps to 504", func(t *testing.T) {
		server := newTestServer(t, &stubPrinter{err: printdomain.ErrPrintTimeout})
		r := postJSON(t, server.URL+"/api/cart/items", map[string]string{"productId": "1"})
		r.Body.Close()
		checkout := postJSON(t, server.URL+"/api/checkout", map[string]string{"paymentMethod": "card"})
		var body struct {
			Order domain.Order `json:"order"`
		}
		decodeBody(t, checkout, &body)

		resp := postJSON(t, server.URL+"/api/orders/print", map[string]string{"orderId": body.Order.ID})
		resp.Body.Close()
		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	})

	t.Run("unknown order maps to 404", func(t *testing.T) {
		server := newTestServer(t, &stubPrinter{})
		resp := postJSON(t, server.URL+"/api/orders/print", map[string]string{"orderId": "missing"})
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestStatsEndpoint(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	r := postJSON(t, server.URL+"/api/cart/items", map[string]string{"productId": "1"})
	r.Body.Close()
	r = postJSON(t, server.URL+"/api/checkout", map[string]string{"paymentMethod": "card"})
	r.Body.Close()

	resp, err := http.Get(server.URL + "/api/stats")
	require.NoError(t, err)
	var stats application.Statistics
	decodeBody(t, resp, &stats)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.InDelta(t, 3.99, stats.TotalRevenue, 1e-9)
	assert.Equal(t, 1, stats.Last7DaysOrders)
	assert.Equal(t, map[string]int{"card": 1}, stats.PaymentMethodMix)
}

func TestHostInfoEndpoint(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp, err := http.Get(server.URL + "/api/host")
	require.NoError(t, err)
	var info map[string]string
	decodeBody(t, resp, &info)
	assert.Equal(t, "1.4.2", info["version"])
	assert.Equal(t, "linux", info["platform"])
}

func TestValidationRejectsBadPayloads(t *testing.T) {
	server := newTestServer(t, &stubPrinter{})

	resp := postJSON(t, server.URL+"/api/checkout", map[string]string{"paymentMethod": "bitcoin"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/coupon", map[string]string{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
