// Package service holds integrations used by handlers after the primary
// write succeeded.  Publishing failures are logged and returned so callers
// can ignore them without interrupting the request.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/queue"
)

// Publisher sends domain events to RabbitMQ.  Each publish dials its own
// connection, so a broker outage never leaves stale state behind.
type Publisher struct {
	URL string
	Log *zap.Logger

	dial func(url string) (channel, func() error, error)
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{URL: url, Log: log, dial: dialAMQP}
}

func dialAMQP(url string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	closeFn := func() error {
		_ = ch.Close()
		return conn.Close()
	}
	return ch, closeFn, nil
}

// PublishOrderCreated publishes ev as a persistent JSON message on the
// order.created queue.
func (p *Publisher) PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error {
	if err := p.publish(ctx, queue.OrderCreatedQueue, ev); err != nil {
		p.Log.Warn("rabbitmq: publish order.created failed", zap.Uint64("order_id", ev.OrderID), zap.Error(err))
		return err
	}
	p.Log.Debug("rabbitmq: order.created published", zap.Uint64("order_id", ev.OrderID))
	return nil
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	ch, closeFn, err := p.dial(p.URL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer func() { _ = closeFn() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
