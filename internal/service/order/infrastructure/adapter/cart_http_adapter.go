package adapter

import (
	"context"
	"fmt"

	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

const cartServiceName = "cart-service"

// CartHTTPAdapter implements port.CartService over the cart collaborator's
// HTTP API.
type CartHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewCartHTTPAdapter(client *httpclient.Client, baseURL string) *CartHTTPAdapter {
	return &CartHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *CartHTTPAdapter) Fetch(ctx context.Context, tenant, buyerID string) (*domain.CartSnapshot, error) {
	url := fmt.Sprintf("%s/%s/cart/%s", a.baseURL, tenant, buyerID)
	var snapshot domain.CartSnapshot
	if err := a.client.GetJSON(ctx, url, &snapshot); err != nil {
		return nil, apperr.Upstream(cartServiceName, url, err)
	}
	return &snapshot, nil
}

func (a *CartHTTPAdapter) Clear(ctx context.Context, tenant, buyerID string) error {
	url := fmt.Sprintf("%s/%s/cart/%s", a.baseURL, tenant, buyerID)
	if err := a.client.Delete(ctx, url); err != nil {
		return apperr.Upstream(cartServiceName, url, err)
	}
	return nil
}
