package application

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/application/saga"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
	"bazaar/internal/service/order/domain/port"
)

// CheckoutResult is the successful response of one checkout saga: every
// created order plus the publish outcome for each, in cart-line order.
type CheckoutResult struct {
	Orders   []domain.Order          `json:"orders"`
	Messages []domain.PublishOutcome `json:"messages"`
}

// OrderApplicationService orchestrates the checkout saga and fronts the
// tenant-scoped CRUD operations.
type OrderApplicationService struct {
	resolver  domain.RepositoryResolver
	cart      port.CartService
	stock     port.StockService
	publisher port.EventPublisher
	queue     string
	tracer    trace.Tracer
}

func NewOrderApplicationService(
	resolver domain.RepositoryResolver,
	cart port.CartService,
	stock port.StockService,
	publisher port.EventPublisher,
	queue string,
	tracer trace.Tracer,
) *OrderApplicationService {
	return &OrderApplicationService{
		resolver:  resolver,
		cart:      cart,
		stock:     stock,
		publisher: publisher,
		queue:     queue,
		tracer:    tracer,
	}
}

// Checkout runs the saga for one buyer: fetch cart, then per line stock
// lookup, order persistence and event publication, then cart clear. Steps
// run strictly sequentially so the emitted order list keeps the cart's
// ordering and downstream services see bounded load. Nothing is retried;
// an abort surfaces immediately with the partial state it left behind.
func (s *OrderApplicationService) Checkout(ctx context.Context, tenant, buyerID, address string) (*CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.Checkout")
	defer span.End()

	if tenant == "" {
		return nil, apperr.Validation("tenant required")
	}
	if buyerID == "" {
		return nil, apperr.Validation("buyerId required")
	}
	if address == "" {
		return nil, apperr.Validation("address required")
	}

	repo, err := s.resolver.Resolve(ctx, tenant)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve tenant storage")
		return nil, err
	}

	sagaCtx := &saga.Context{
		Ctx:       ctx,
		Tracer:    s.tracer,
		Tenant:    tenant,
		BuyerID:   buyerID,
		Address:   address,
		Queue:     s.queue,
		Repo:      repo,
		Cart:      s.cart,
		Stock:     s.stock,
		Publisher: s.publisher,
	}

	chain := saga.NewFetchCartHandler()
	chain.
		SetNext(saga.NewProcessLinesHandler()).
		SetNext(saga.NewClearCartHandler())

	if err := chain.Handle(sagaCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout saga aborted")
		metrics.CheckoutsTotal.WithLabelValues("aborted").Inc()
		logger.Ctx(ctx).Error().Err(err).
			Str("tenant", tenant).
			Str("buyer_id", buyerID).
			Int("orders_created", len(sagaCtx.Orders)).
			Msg("checkout aborted")
		return nil, err
	}

	metrics.CheckoutsTotal.WithLabelValues("success").Inc()
	logger.Ctx(ctx).Info().
		Str("tenant", tenant).
		Str("buyer_id", buyerID).
		Int("orders", len(sagaCtx.Orders)).
		Msg("checkout completed")

	return &CheckoutResult{
		Orders:   sagaCtx.Orders,
		Messages: sagaCtx.Messages,
	}, nil
}

// CreateOrder persists one order directly, outside the saga.
func (s *OrderApplicationService) CreateOrder(ctx context.Context, tenant string, draft *domain.Order) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.CreateOrder")
	defer span.End()

	repo, err := s.resolver.Resolve(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return repo.Create(ctx, draft)
}

// GetOrder fetches one order by id within the tenant's partition.
func (s *OrderApplicationService) GetOrder(ctx context.Context, tenant, orderID string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.GetOrder")
	defer span.End()

	repo, err := s.resolver.Resolve(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, orderID)
}

// SellerOrders lists a seller's orders within the tenant's partition.
func (s *OrderApplicationService) SellerOrders(ctx context.Context, tenant, sellerID string) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.SellerOrders")
	defer span.End()

	repo, err := s.resolver.Resolve(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return repo.FindBySeller(ctx, sellerID)
}

// BuyerOrders lists a buyer's orders within the tenant's partition.
func (s *OrderApplicationService) BuyerOrders(ctx context.Context, tenant, buyerID string) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.BuyerOrders")
	defer span.End()

	repo, err := s.resolver.Resolve(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return repo.FindByBuyer(ctx, buyerID)
}

// UpdateOrder applies a partial field overlay to an existing order.
func (s *OrderApplicationService) UpdateOrder(ctx context.Context, tenant, orderID string, patch domain.Patch) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "app.UpdateOrder")
	defer span.End()

	repo, err := s.resolver.Resolve(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return repo.Update(ctx, orderID, patch)
}
