// Package events publishes route lifecycle events to RabbitMQ.
// Publishing is best-effort: errors are returned so callers can log them,
// but no state-machine operation depends on a publish succeeding.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

const (
	queueRouteCreated   = "route.created"
	queueStopResolved   = "route.stop_resolved"
	queueRouteCompleted = "route.completed"
)

// AMQPPublisher implements EventPublisher over a RabbitMQ connection.
// A nil publisher is valid and drops every event.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	if url == "" {
		return nil, errors.New("amqp url is empty")
	}
	return &AMQPPublisher{url: url}, nil
}

func (p *AMQPPublisher) PublishRouteCreated(ctx context.Context, ev ports.RouteCreatedEvent) error {
	return p.publish(ctx, queueRouteCreated, ev)
}

func (p *AMQPPublisher) PublishStopResolved(ctx context.Context, ev ports.StopResolvedEvent) error {
	return p.publish(ctx, queueStopResolved, ev)
}

func (p *AMQPPublisher) PublishRouteCompleted(ctx context.Context, ev ports.RouteCompletedEvent) error {
	return p.publish(ctx, queueRouteCompleted, ev)
}

// publish dials per message. Event volume here is a handful per route, so a
// held-open channel is not worth the reconnect handling it would need.
func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	if p == nil {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("publish %s: dial: %w", queue, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("publish %s: open channel: %w", queue, err)
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("publish %s: declare queue: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("publish %s: marshal event: %w", queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", queue, err)
	}

	return nil
}
