// Package events publishes ledger lifecycle events to a RabbitMQ topic
// exchange. A no-op publisher keeps the service functional when no
// broker is configured.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "trustvault.events"

// Routing keys for the ledger lifecycle.
const (
	UserRegistered = "user.registered"
	LoanActivated  = "loan.activated"
	LoanCancelled  = "loan.cancelled"
	LoanRepaid     = "loan.repaid"
	LoanDefaulted  = "loan.defaulted"
)

// LoanEvent is the payload for every loan.* routing key.
type LoanEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	LoanID    string    `json:"loan_id"`
	Borrower  string    `json:"borrower"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// UserEvent is the payload for user.* routing keys.
type UserEvent struct {
	EventID   uuid.UUID `json:"event_id"`
	Address   string    `json:"address"`
	Timestamp time.Time `json:"timestamp"`
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// Noop is used when RabbitMQ is unavailable or not configured.
type Noop struct{}

func (Noop) Publish(ctx context.Context, routingKey string, body any) error {
	log.Printf("events: no broker configured, dropping %s", routingKey)
	return nil
}

func (Noop) Close() {}

type Producer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewProducer dials the broker and declares the durable topic exchange.
func NewProducer(amqpURL string) (*Producer, error) {
	conn, err := amqp.DialConfig(amqpURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Producer{conn: conn, channel: ch}, nil
}

func (p *Producer) Publish(ctx context.Context, routingKey string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx,
		Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        jsonBody,
		},
	)
}

func (p *Producer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
