package saga

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
)

// Context carries one checkout request through the saga chain. Handlers
// read their inputs from it and append their results to the accumulators.
type Context struct {
	Ctx    context.Context
	Tracer trace.Tracer

	Tenant  string
	BuyerID string
	Address string
	Queue   string

	// Outbound dependencies, resolved before the chain runs.
	Repo      domain.OrderRepository
	Cart      port.CartService
	Stock     port.StockService
	Publisher port.EventPublisher

	// Snapshot is set by the cart fetch step.
	Snapshot *domain.CartSnapshot

	// Accumulators. Orders holds one entry per processed cart line, in cart
	// order. Messages holds one publish outcome per created order, success
	// or not.
	Orders   []domain.Order
	Messages []domain.PublishOutcome
}

// Handler is one step of the checkout saga.
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(sagaCtx *Context) error
}

// NextHandler provides the chain plumbing for embedding handlers.
type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(sagaCtx *Context) error {
	if h.next != nil {
		return h.next.Handle(sagaCtx)
	}
	return nil
}
