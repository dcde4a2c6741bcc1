package port

import (
	"context"

	"bazaar/internal/service/order/domain"
)

// EventPublisher is the outbound port to the message broker. Publish reports
// its result as a structured outcome and never returns an error: broker
// trouble is telemetry, not a commit gate.
type EventPublisher interface {
	Publish(ctx context.Context, queue string, event *domain.OrderEvent) domain.PublishOutcome
}
