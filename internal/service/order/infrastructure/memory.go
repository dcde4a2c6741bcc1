package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

// MemoryOrderRepository is an in-memory domain.OrderRepository, used for
// local development and tests.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
	seq    []string
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]domain.Order)}
}

func (r *MemoryOrderRepository) Create(_ context.Context, draft *domain.Order) (*domain.Order, error) {
	order := *draft
	if order.Status == "" {
		order.Status = domain.StatusPending
	}
	if order.Date.IsZero() {
		order.Date = time.Now().UTC()
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.ID = uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	r.seq = append(r.seq, order.ID)
	return &order, nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	return &order, nil
}

func (r *MemoryOrderRepository) FindBySeller(_ context.Context, sellerID string) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.SellerID == sellerID }), nil
}

func (r *MemoryOrderRepository) FindByBuyer(_ context.Context, buyerID string) ([]domain.Order, error) {
	return r.filter(func(o domain.Order) bool { return o.BuyerID == buyerID }), nil
}

func (r *MemoryOrderRepository) Update(_ context.Context, id string, patch domain.Patch) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	order.Apply(patch)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	r.orders[id] = order
	return &order, nil
}

func (r *MemoryOrderRepository) filter(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Order{}
	for _, id := range r.seq {
		if o := r.orders[id]; keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// MemoryResolver maps tenants to in-memory repositories. Tenants are
// created implicitly on first reference, mirroring the real registry.
type MemoryResolver struct {
	mu      sync.Mutex
	tenants map[string]*MemoryOrderRepository
}

func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{tenants: make(map[string]*MemoryOrderRepository)}
}

func (r *MemoryResolver) Resolve(_ context.Context, tenant string) (domain.OrderRepository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	repo, ok := r.tenants[tenant]
	if !ok {
		repo = NewMemoryOrderRepository()
		r.tenants[tenant] = repo
	}
	return repo, nil
}
