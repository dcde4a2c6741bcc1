package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/domain/apperr"
)

func testClient() *httpclient.Client {
	return httpclient.NewClient(otel.Tracer("test"))
}

func TestCartAdapterFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/shop1/cart/buyer1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"buyerId":"buyer1","contents":[{"productId":"p1","quantity":2},{"productId":"p2","quantity":1}]}`))
	}))
	defer server.Close()

	snapshot, err := NewCartHTTPAdapter(testClient(), server.URL).Fetch(context.Background(), "shop1", "buyer1")
	require.NoError(t, err)
	assert.Equal(t, "buyer1", snapshot.BuyerID)
	require.Len(t, snapshot.Contents, 2)
	assert.Equal(t, "p1", snapshot.Contents[0].ProductID)
	assert.Equal(t, 2, snapshot.Contents[0].Quantity)
}

func TestCartAdapterFetchUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewCartHTTPAdapter(testClient(), server.URL).Fetch(context.Background(), "shop1", "buyer1")
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))
	assert.Contains(t, err.Error(), "cart-service")
	assert.Contains(t, err.Error(), "/shop1/cart/buyer1")
}

func TestCartAdapterFetchUnreachable(t *testing.T) {
	_, err := NewCartHTTPAdapter(testClient(), "http://127.0.0.1:1").Fetch(context.Background(), "shop1", "buyer1")
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))
}

func TestCartAdapterClear(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewCartHTTPAdapter(testClient(), server.URL).Clear(context.Background(), "shop1", "buyer1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "/shop1/cart/buyer1", path)
}

func TestStockAdapterInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shop1/info/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"productId":"p1","sellerId":"s1","price":9.99,"name":"widget","description":"a widget"}`))
	}))
	defer server.Close()

	info, err := NewStockHTTPAdapter(testClient(), server.URL).Info(context.Background(), "shop1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "s1", info.SellerID)
	assert.Equal(t, 9.99, info.Price)
}

func TestStockAdapterInfoUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewStockHTTPAdapter(testClient(), server.URL).Info(context.Background(), "shop1", "p1")
	require.Error(t, err)
	assert.True(t, apperr.IsUpstream(err))
	assert.Contains(t, err.Error(), "stock-service")
}
