package saga

import (
	"fmt"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

// ProcessLinesHandler walks the cart lines strictly in order: stock lookup,
// order persistence, event publication, one line at a time. A stock or
// storage failure aborts the remaining checkout; orders already created for
// earlier lines stay. Partial completion is surfaced, not rolled back.
// Publish failures never abort anything; they land in the outcome list.
type ProcessLinesHandler struct {
	NextHandler
}

func NewProcessLinesHandler() *ProcessLinesHandler {
	return &ProcessLinesHandler{}
}

func (h *ProcessLinesHandler) Handle(sagaCtx *Context) error {
	ctx, span := sagaCtx.Tracer.Start(sagaCtx.Ctx, "saga.ProcessLines")
	defer span.End()

	for _, line := range sagaCtx.Snapshot.Contents {
		info, err := sagaCtx.Stock.Info(ctx, sagaCtx.Tenant, line.ProductID)
		if err != nil {
			span.RecordError(err)
			return err
		}
		if info.SellerID == "" {
			err := apperr.Upstream("stock-service", "",
				fmt.Errorf("stock info for product %s has no sellerId", line.ProductID))
			span.RecordError(err)
			return err
		}

		draft := &domain.Order{
			Type:      domain.TypeStocked,
			BuyerID:   sagaCtx.BuyerID,
			SellerID:  info.SellerID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Address:   sagaCtx.Address,
			Status:    domain.StatusPending,
		}
		order, err := sagaCtx.Repo.Create(ctx, draft)
		if err != nil {
			span.RecordError(err)
			return err
		}
		sagaCtx.Orders = append(sagaCtx.Orders, *order)

		event := domain.NewOrderEvent(order, sagaCtx.Tenant)
		outcome := sagaCtx.Publisher.Publish(ctx, sagaCtx.Queue, event)
		sagaCtx.Messages = append(sagaCtx.Messages, outcome)

		logger.Ctx(ctx).Info().
			Str("order_id", order.ID).
			Str("product_id", line.ProductID).
			Str("seller_id", info.SellerID).
			Str("publish_status", string(outcome.Status)).
			Msg("cart line processed")
	}

	return h.executeNext(sagaCtx)
}
