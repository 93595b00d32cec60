// Package queue publishes domain events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"devevents/internal/domain"
)

// BookingCreatedQueue is the durable queue booking events are routed to.
const BookingCreatedQueue = "booking.created"

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// DefaultDialTimeout bounds the TCP connect and AMQP handshake of one publish.
const DefaultDialTimeout = 2 * time.Second

// openFunc returns a channel and a func closing the underlying connection.
type openFunc func(ctx context.Context, url string) (channel, func() error, error)

// dialChannel connects with a timeout no longer than DefaultDialTimeout or the time
// left before ctx's deadline.
func dialChannel(ctx context.Context, url string) (channel, func() error, error) {
	timeout := DefaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, nil, fmt.Errorf("dial: %w", context.DeadlineExceeded)
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn.Close, nil
}

type rabbitPublisher struct {
	url    string
	open   openFunc
	logger *slog.Logger
}

// NewBookingPublisher returns a publisher for booking events. An empty url
// yields a publisher that only logs.
func NewBookingPublisher(url string, logger *slog.Logger) domain.BookingPublisher {
	if url == "" {
		return &noopPublisher{logger: logger}
	}
	return &rabbitPublisher{url: url, open: dialChannel, logger: logger}
}

// PublishBookingCreated sends msg as a persistent JSON message. A connection is
// opened per call; bookings are infrequent.
func (p *rabbitPublisher) PublishBookingCreated(ctx context.Context, msg *domain.BookingCreatedMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal booking created: %w", err)
	}

	ch, closeConn, err := p.openWithContext(ctx)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	defer func() {
		_ = ch.Close()
		_ = closeConn()
	}()

	if _, err := ch.QueueDeclare(
		BookingCreatedQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("rabbitmq: queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    msg.BookingID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", BookingCreatedQueue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	p.logger.DebugContext(ctx, "booking created published", "booking_id", msg.BookingID)
	return nil
}

type openResult struct {
	ch        channel
	closeConn func() error
	err       error
}

// openWithContext returns as soon as ctx is done. A connection that completes
// afterwards is closed in the background.
func (p *rabbitPublisher) openWithContext(ctx context.Context) (channel, func() error, error) {
	done := make(chan openResult, 1)
	go func() {
		ch, closeConn, err := p.open(ctx, p.url)
		done <- openResult{ch: ch, closeConn: closeConn, err: err}
	}()
	select {
	case res := <-done:
		return res.ch, res.closeConn, res.err
	case <-ctx.Done():
		go func() {
			if res := <-done; res.err == nil {
				_ = res.ch.Close()
				_ = res.closeConn()
			}
		}()
		return nil, nil, fmt.Errorf("open channel: %w", ctx.Err())
	}
}

type noopPublisher struct {
	logger *slog.Logger
}

func (n *noopPublisher) PublishBookingCreated(ctx context.Context, msg *domain.BookingCreatedMessage) error {
	n.logger.DebugContext(ctx, "booking created (no broker configured)", "booking_id", msg.BookingID, "event_id", msg.EventID)
	return nil
}
