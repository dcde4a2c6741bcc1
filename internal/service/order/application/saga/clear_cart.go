package saga

import (
	"bazaar/internal/pkg/logger"
)

// ClearCartHandler empties the buyer's cart once every line has been
// processed. A failure here still aborts the checkout even though the
// orders already exist and their events went out; the cart is then left
// non-empty for orders that exist. Known inconsistency, kept as-is pending
// product review.
type ClearCartHandler struct {
	NextHandler
}

func NewClearCartHandler() *ClearCartHandler {
	return &ClearCartHandler{}
}

func (h *ClearCartHandler) Handle(sagaCtx *Context) error {
	ctx, span := sagaCtx.Tracer.Start(sagaCtx.Ctx, "saga.ClearCart")
	defer span.End()

	if err := sagaCtx.Cart.Clear(ctx, sagaCtx.Tenant, sagaCtx.BuyerID); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).
			Str("tenant", sagaCtx.Tenant).
			Str("buyer_id", sagaCtx.BuyerID).
			Int("orders_created", len(sagaCtx.Orders)).
			Msg("cart clear failed after orders were created")
		return err
	}

	logger.Ctx(ctx).Info().
		Str("tenant", sagaCtx.Tenant).
		Str("buyer_id", sagaCtx.BuyerID).
		Msg("cart cleared")

	return h.executeNext(sagaCtx)
}
