package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/order/domain"
)

const orderCacheTTL = 5 * time.Minute

// CachedOrderRepository is a read-through cache over another repository.
// Keys are prefixed with the tenant name so entries can never leak across
// tenants. Cache trouble is logged and ignored; the inner repository is
// always the source of truth.
type CachedOrderRepository struct {
	inner  domain.OrderRepository
	rdb    *redis.Client
	tenant string
}

func NewCachedOrderRepository(inner domain.OrderRepository, rdb *redis.Client, tenant string) *CachedOrderRepository {
	return &CachedOrderRepository{inner: inner, rdb: rdb, tenant: tenant}
}

func (r *CachedOrderRepository) key(id string) string {
	return fmt.Sprintf("order:%s:%s", r.tenant, id)
}

func (r *CachedOrderRepository) Create(ctx context.Context, draft *domain.Order) (*domain.Order, error) {
	order, err := r.inner.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	r.set(ctx, order)
	return order, nil
}

func (r *CachedOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	if data, err := r.rdb.Get(ctx, r.key(id)).Bytes(); err == nil {
		var order domain.Order
		if err := json.Unmarshal(data, &order); err == nil {
			return &order, nil
		}
	}

	order, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, order)
	return order, nil
}

func (r *CachedOrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	return r.inner.FindBySeller(ctx, sellerID)
}

func (r *CachedOrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	return r.inner.FindByBuyer(ctx, buyerID)
}

func (r *CachedOrderRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Order, error) {
	order, err := r.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	// Drop rather than overwrite: a concurrent reader may have just
	// repopulated the key with the pre-update record.
	if err := r.rdb.Del(ctx, r.key(id)).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", id).Msg("failed to invalidate order cache entry")
	}
	return order, nil
}

func (r *CachedOrderRepository) set(ctx context.Context, order *domain.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, r.key(order.ID), data, orderCacheTTL).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to cache order")
	}
}
