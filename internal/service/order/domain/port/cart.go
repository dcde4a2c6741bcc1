package port

import (
	"context"

	"bazaar/internal/service/order/domain"
)

// CartService is the outbound port to the cart collaborator.
type CartService interface {
	// Fetch reads the buyer's current cart.
	Fetch(ctx context.Context, tenant, buyerID string) (*domain.CartSnapshot, error)

	// Clear empties the buyer's cart after checkout.
	Clear(ctx context.Context, tenant, buyerID string) error
}
