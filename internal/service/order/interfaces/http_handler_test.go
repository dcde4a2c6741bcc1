package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
	"bazaar/internal/service/order/infrastructure"
)

type stubCart struct {
	snapshot *domain.CartSnapshot
	fetchErr error
}

func (c *stubCart) Fetch(_ context.Context, _, _ string) (*domain.CartSnapshot, error) {
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	return c.snapshot, nil
}

func (c *stubCart) Clear(_ context.Context, _, _ string) error { return nil }

type stubStock struct{}

func (stubStock) Info(_ context.Context, _, productID string) (*domain.StockInfo, error) {
	return &domain.StockInfo{ProductID: productID, SellerID: "s1", Price: 9.99}, nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(_ context.Context, _ string, event *domain.OrderEvent) domain.PublishOutcome {
	return domain.PublishOutcome{Status: domain.OutcomeSuccess, Detail: "success", Payload: event}
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(_ context.Context, _ string) error { return p.err }

func newTestHandler(cart *stubCart, pinger *stubPinger) *OrderHandler {
	service := application.NewOrderApplicationService(
		infrastructure.NewMemoryResolver(),
		cart,
		stubStock{},
		stubPublisher{},
		"order",
		otel.Tracer("test"),
	)
	return NewOrderHandler(service, pinger, 5*time.Second)
}

func doRequest(t *testing.T, h *OrderHandler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&stubCart{}, &stubPinger{})
	rec := doRequest(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decodeMessage(t, rec))
}

func TestTenantHealth(t *testing.T) {
	t.Run("reachable storage", func(t *testing.T) {
		h := newTestHandler(&stubCart{}, &stubPinger{})
		rec := doRequest(t, h, http.MethodGet, "/shop1/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", decodeMessage(t, rec))
	})

	t.Run("unreachable storage", func(t *testing.T) {
		h := newTestHandler(&stubCart{}, &stubPinger{err: apperr.Connection("shop1", assert.AnError)})
		rec := doRequest(t, h, http.MethodGet, "/shop1/health", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCheckoutEndpoint(t *testing.T) {
	cart := &stubCart{snapshot: &domain.CartSnapshot{
		BuyerID:  "000000000000000000000002",
		Contents: []domain.CartLine{{ProductID: "p1", Quantity: 2}},
	}}
	h := newTestHandler(cart, &stubPinger{})

	rec := doRequest(t, h, http.MethodPost, "/shop1/checkout/000000000000000000000002",
		`{"address":"123 Main St"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result application.CheckoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Orders, 1)
	assert.Equal(t, "p1", result.Orders[0].ProductID)
	assert.Equal(t, domain.StatusPending, result.Orders[0].Status)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, domain.OutcomeSuccess, result.Messages[0].Status)
}

func TestCheckoutEndpointMissingAddress(t *testing.T) {
	h := newTestHandler(&stubCart{}, &stubPinger{})
	rec := doRequest(t, h, http.MethodPost, "/shop1/checkout/b1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "address required", decodeMessage(t, rec))
}

func TestCheckoutEndpointUpstreamFailure(t *testing.T) {
	cart := &stubCart{fetchErr: apperr.Upstream("cart-service", "http://cart/shop1/cart/b1", assert.AnError)}
	h := newTestHandler(cart, &stubPinger{})
	rec := doRequest(t, h, http.MethodPost, "/shop1/checkout/b1", `{"address":"123 Main St"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeMessage(t, rec), "cart-service")
}

func TestOrderCreateValidation(t *testing.T) {
	h := newTestHandler(&stubCart{}, &stubPinger{})

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing buyerId", `{}`, "buyerId required and must have 24 digits"},
		{"short sellerId", `{"buyerId":"000000000000000000000002","sellerId":"s1"}`, "sellerId required and must have 24 digits"},
		{"missing quantity", `{"buyerId":"000000000000000000000002","sellerId":"000000000000000000000001"}`, "quantity required"},
		{"missing address", `{"buyerId":"000000000000000000000002","sellerId":"000000000000000000000001","quantity":2}`, "address required"},
		{"missing status", `{"buyerId":"000000000000000000000002","sellerId":"000000000000000000000001","quantity":2,"address":"123 Main St"}`, "status required"},
		{"missing type", `{"buyerId":"000000000000000000000002","sellerId":"000000000000000000000001","quantity":2,"address":"123 Main St","status":"pending"}`, "type required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodPost, "/shop1/order", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeMessage(t, rec))
		})
	}
}

func TestOrderCrudEndpoints(t *testing.T) {
	h := newTestHandler(&stubCart{}, &stubPinger{})

	createBody := `{
		"type": "stocked",
		"buyerId": "000000000000000000000002",
		"sellerId": "000000000000000000000001",
		"productId": "p1",
		"quantity": 2,
		"address": "123 Main St",
		"status": "pending"
	}`
	rec := doRequest(t, h, http.MethodPost, "/shop1/order", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.Order)
	assert.Equal(t, "order created", created.Message)
	orderID := created.Order.ID

	rec = doRequest(t, h, http.MethodGet, "/shop1/order/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, orderID, fetched.ID)

	rec = doRequest(t, h, http.MethodGet, "/shop1/order/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodPut, "/shop1/order/"+orderID, `{"status":"accepted"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "order updated", updated.Message)
	assert.Equal(t, domain.StatusAccepted, updated.Order.Status)
	assert.Equal(t, "123 Main St", updated.Order.Address)

	rec = doRequest(t, h, http.MethodPut, "/shop1/order/missing", `{"status":"accepted"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/shop1/vendor_orders/000000000000000000000001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sellerOrders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sellerOrders))
	assert.Len(t, sellerOrders, 1)

	rec = doRequest(t, h, http.MethodGet, "/shop1/buyer_orders/000000000000000000000002", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var buyerOrders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buyerOrders))
	assert.Len(t, buyerOrders, 1)

	// The same order is invisible under another tenant.
	rec = doRequest(t, h, http.MethodGet, "/shop2/order/"+orderID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
