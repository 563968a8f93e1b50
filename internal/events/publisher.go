// Package events publishes booking-lifecycle and night-audit events to an
// AMQP topic exchange for external consumers (channel managers, reporting).
// Publishing is optional: a nil *Publisher is valid and drops everything.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for the published events.
const (
	BookingCreated    = "booking.created"
	BookingUpdated    = "booking.updated"
	BookingCheckedIn  = "booking.checked_in"
	BookingCheckedOut = "booking.checked_out"
	BookingCancelled  = "booking.cancelled"
	BookingDeleted    = "booking.deleted"
	AuditCompleted    = "audit.completed"
)

// Publisher sends JSON events to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// Connect dials the broker and declares the exchange.
func Connect(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish marshals payload and sends it with the given routing key. Publish
// failures are logged, not returned: event delivery is best-effort and never
// blocks a booking or audit operation.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload any) {
	if p == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: failed to marshal %s payload: %v", routingKey, err)
		return
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		log.Printf("events: failed to publish %s: %v", routingKey, err)
	}
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
