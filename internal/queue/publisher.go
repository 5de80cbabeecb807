// Package queue publishes booking events to RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// Publisher sends each event over its own broker connection.
type Publisher struct {
	url    string
	logger *slog.Logger
}

func NewPublisher(url string, logger *slog.Logger) *Publisher {
	return &Publisher{
		url:    url,
		logger: logger,
	}
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, event domain.BookingConfirmedEvent) error {
	return p.publish(ctx, BookingConfirmedQueue, event)
}

func (p *Publisher) PublishBookingCancelled(ctx context.Context, event domain.BookingCancelledEvent) error {
	return p.publish(ctx, BookingCancelledQueue, event)
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", queue, err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.logger.Error("rabbitmq dial failed", "queue", queue, "error", err)
		return fmt.Errorf("dialing broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error("rabbitmq channel open failed", "queue", queue, "error", err)
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", queue, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, msg)
	if err != nil {
		p.logger.Error("rabbitmq publish failed", "queue", queue, "error", err)
		return fmt.Errorf("publishing to %s: %w", queue, err)
	}

	p.logger.Debug("event published", "queue", queue)

	return nil
}
