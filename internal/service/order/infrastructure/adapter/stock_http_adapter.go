package adapter

import (
	"context"
	"fmt"

	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

const stockServiceName = "stock-service"

// StockHTTPAdapter implements port.StockService over the stock
// collaborator's HTTP API.
type StockHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

func NewStockHTTPAdapter(client *httpclient.Client, baseURL string) *StockHTTPAdapter {
	return &StockHTTPAdapter{client: client, baseURL: baseURL}
}

func (a *StockHTTPAdapter) Info(ctx context.Context, tenant, productID string) (*domain.StockInfo, error) {
	url := fmt.Sprintf("%s/%s/info/%s", a.baseURL, tenant, productID)
	var info domain.StockInfo
	if err := a.client.GetJSON(ctx, url, &info); err != nil {
		return nil, apperr.Upstream(stockServiceName, url, err)
	}
	return &info, nil
}
