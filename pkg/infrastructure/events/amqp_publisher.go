package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// AMQPPublisher sends status changes to a durable topic exchange. Routing
// keys look like blend.status.testing so consumers can bind per status.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher dials url and declares the exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // noWait
		nil,      // arguments
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, exchange: exchange, ch: ch}, nil
}

func (p *AMQPPublisher) PublishStatusChange(ctx context.Context, change entities.BlendStatusChange) error {
	msg, err := statusPublishing(change)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, StatusRoutingKey(change.To), false, false, msg); err != nil {
		return fmt.Errorf("publish to exchange %s: %w", p.exchange, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// StatusRoutingKey is the topic a change to status is published under
func StatusRoutingKey(status entities.BlendStatus) string {
	return "blend.status." + strings.ToLower(string(status))
}

func statusPublishing(change entities.BlendStatusChange) (amqp.Publishing, error) {
	body, err := json.Marshal(change)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode status change: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s-%d", change.BlendID, change.At.UnixNano()),
		Timestamp:    change.At,
		Type:         BlendStatusChanged,
		Body:         body,
	}, nil
}
