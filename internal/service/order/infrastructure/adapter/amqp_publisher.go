package adapter

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/service/order/domain"
)

const (
	detailSuccess        = "success"
	detailConnectFailure = "connect failure"
	detailPublishFailure = "publish failure"
)

// amqpConnection and amqpChannel narrow the amqp091 types to what the
// publisher touches, so the broker can be faked in tests.
type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
}

type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// DialFunc opens a broker connection. Injectable for tests.
type DialFunc func(url string) (amqpConnection, error)

func defaultDial(url string) (amqpConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &realConnection{conn: conn}, nil
}

type realConnection struct {
	conn *amqp.Connection
}

func (c *realConnection) Channel() (amqpChannel, error) { return c.conn.Channel() }
func (c *realConnection) Close() error                  { return c.conn.Close() }

// AMQPPublisher implements port.EventPublisher against a RabbitMQ-style
// broker. Every publish dials its own connection, declares the durable
// queue, sends one persistent JSON message and tears the connection down
// again. That bounds resource lifetime to the call at the cost of per-call
// connect latency.
//
// Publish never returns an error: every path ends in a PublishOutcome, so a
// broker failure can never fault the surrounding request.
type AMQPPublisher struct {
	url  string
	dial DialFunc
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, dial: defaultDial}
}

// NewAMQPPublisherWithDial is NewAMQPPublisher with a custom dialer.
func NewAMQPPublisherWithDial(url string, dial DialFunc) *AMQPPublisher {
	return &AMQPPublisher{url: url, dial: dial}
}

func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event *domain.OrderEvent) domain.PublishOutcome {
	outcome := func(status domain.OutcomeStatus, detail string) domain.PublishOutcome {
		metrics.PublishOutcomesTotal.WithLabelValues(string(status)).Inc()
		return domain.PublishOutcome{Status: status, Detail: detail, Payload: event}
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).Msg("failed to marshal order event")
		return outcome(domain.OutcomeError, detailPublishFailure)
	}

	conn, err := p.dial(p.url)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).Msg("failed to connect to broker")
		return outcome(domain.OutcomeError, detailConnectFailure)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("order_id", event.OrderID).Msg("failed to open broker channel")
		return outcome(domain.OutcomeError, detailPublishFailure)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("queue", queue).Msg("failed to declare queue")
		return outcome(domain.OutcomeError, detailPublishFailure)
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("queue", queue).Str("order_id", event.OrderID).Msg("failed to publish order event")
		return outcome(domain.OutcomeError, detailPublishFailure)
	}

	logger.Ctx(ctx).Info().Str("queue", queue).Str("order_id", event.OrderID).Msg("order event published")
	return outcome(domain.OutcomeSuccess, detailSuccess)
}
