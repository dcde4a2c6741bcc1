package saga

import (
	"bazaar/internal/pkg/logger"
)

// FetchCartHandler reads the buyer's cart from the cart service. A cart
// that cannot be read aborts the whole checkout before any order exists.
type FetchCartHandler struct {
	NextHandler
}

func NewFetchCartHandler() *FetchCartHandler {
	return &FetchCartHandler{}
}

func (h *FetchCartHandler) Handle(sagaCtx *Context) error {
	ctx, span := sagaCtx.Tracer.Start(sagaCtx.Ctx, "saga.FetchCart")
	defer span.End()

	snapshot, err := sagaCtx.Cart.Fetch(ctx, sagaCtx.Tenant, sagaCtx.BuyerID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	sagaCtx.Snapshot = snapshot

	logger.Ctx(ctx).Info().
		Str("tenant", sagaCtx.Tenant).
		Str("buyer_id", sagaCtx.BuyerID).
		Int("lines", len(snapshot.Contents)).
		Msg("cart fetched")

	return h.executeNext(sagaCtx)
}
