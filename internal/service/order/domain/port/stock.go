package port

import (
	"context"

	"bazaar/internal/service/order/domain"
)

// StockService is the outbound port to the stock collaborator.
type StockService interface {
	// Info returns the current seller/price/stock view of a product.
	Info(ctx context.Context, tenant, productID string) (*domain.StockInfo, error)
}
