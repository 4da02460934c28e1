package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OrderPlacedQueue      = "order.placed"
	BookingConfirmedQueue = "booking.confirmed"
)

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare queues so publish never fails due to missing infra
	if _, err = ch.QueueDeclare(OrderPlacedQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrderPlacedQueue, err)
	}
	if _, err = ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", BookingConfirmedQueue, err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, ev OrderPlaced) error {
	ev.EventType = "OrderPlaced"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	return p.publishJSON(ctx, OrderPlacedQueue, body)
}

func (p *Publisher) PublishBookingConfirmed(ctx context.Context, ev BookingConfirmed) error {
	ev.EventType = "BookingConfirmed"

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal BookingConfirmed: %w", err)
	}

	return p.publishJSON(ctx, BookingConfirmedQueue, body)
}

func (p *Publisher) publishJSON(ctx context.Context, queue string, body []byte) error {
	return p.ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
