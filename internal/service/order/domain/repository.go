package domain

import "context"

// OrderRepository is the persistence interface for one tenant's orders. An
// implementation is always bound to a single tenant's storage; there is no
// cross-tenant query surface.
type OrderRepository interface {
	// Create validates the draft, assigns id and defaults, and persists it.
	Create(ctx context.Context, draft *Order) (*Order, error)

	// FindByID returns the order or a not-found error.
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindBySeller returns the seller's orders, possibly empty.
	FindBySeller(ctx context.Context, sellerID string) ([]Order, error)

	// FindByBuyer returns the buyer's orders, possibly empty.
	FindByBuyer(ctx context.Context, buyerID string) ([]Order, error)

	// Update overlays the present patch fields onto the stored order,
	// re-validates the merged record and persists it.
	Update(ctx context.Context, id string, patch Patch) (*Order, error)
}

// RepositoryResolver maps a tenant name to that tenant's repository,
// creating the underlying storage connection on first use.
type RepositoryResolver interface {
	Resolve(ctx context.Context, tenant string) (OrderRepository, error)
}
