package infrastructure

import (
	"context"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

// GormOrderRepository implements domain.OrderRepository over one tenant's
// database connection.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, draft *domain.Order) (*domain.Order, error) {
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

	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create order")
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if pkgerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", id)
		}
		return nil, pkgerrors.Wrap(err, "find order by id")
	}
	return &order, nil
}

func (r *GormOrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).Order("date").Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find orders by seller")
	}
	return orders, nil
}

func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	orders := []domain.Order{}
	err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).Order("date").Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find orders by buyer")
	}
	return orders, nil
}

func (r *GormOrderRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Order, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Apply(patch)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(order).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "update order")
	}
	return order, nil
}
