package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer reads OrderCreatedEvent messages and appends one line per order
// to LogPath.
type Consumer struct {
	URL     string
	LogPath string
	Log     *zap.Logger
}

func NewConsumer(url, logPath string, log *zap.Logger) *Consumer {
	if logPath == "" {
		logPath = filepath.Join("logs", "orders.log")
	}
	return &Consumer{URL: url, LogPath: logPath, Log: log}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled, dialing
// again with exponential backoff (capped at 30s) whenever the connection
// drops.  It returns ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("order consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("order consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("order consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(OrderCreatedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.Log.Info("order consumer: listening", zap.String("queue", OrderCreatedQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(d.Body); err != nil {
				c.Log.Error("order consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // no requeue, avoids a poison-message loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(body []byte) error {
	var ev OrderCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return WriteOrderLine(f, ev)
}

// WriteOrderLine formats ev as a single human-readable line.
func WriteOrderLine(w io.Writer, ev OrderCreatedEvent) error {
	places := make([]string, 0, len(ev.Tickets))
	for _, t := range ev.Tickets {
		places = append(places, fmt.Sprintf("%d:%d/%d", t.MovieSessionID, t.Row, t.Seat))
	}
	movie, hall, show := "", "", ""
	if len(ev.Tickets) > 0 {
		movie, hall, show = ev.Tickets[0].MovieTitle, ev.Tickets[0].HallName, ev.Tickets[0].ShowTime
	}
	_, err := fmt.Fprintf(w, "[%s] Order created | order_id=%d | user_id=%d | movie=%q | hall=%q | show_time=%s | tickets=%d | places=[%s]\n",
		ev.CreatedAt, ev.OrderID, ev.UserID, movie, hall, show, len(ev.Tickets), strings.Join(places, ","))
	if err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
