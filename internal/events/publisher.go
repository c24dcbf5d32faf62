package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/necstaz/shopapi/internal/config"
	"github.com/necstaz/shopapi/internal/domain"
)

const (
	OrderCreatedRoutingKey = "order.created"
	OrderPaidRoutingKey    = "order.paid"
)

// OrderEvent is the message body for order lifecycle events. The paid event
// feeds the confirmation-email worker downstream.
type OrderEvent struct {
	OrderNumber string     `json:"order_number"`
	Email       string     `json:"email"`
	Total       float64    `json:"total"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Publisher emits order lifecycle events. Publishing is best effort
// everywhere it is called: a broker failure never fails a request.
type Publisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
	OrderPaid(ctx context.Context, order *domain.Order, paidAt time.Time) error
	Close() error
}

type rabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher connects to RabbitMQ and declares the order exchange. When
// no AMQP URL is configured it returns a no-op publisher so the service
// runs without a broker.
func NewPublisher(cfg config.AMQPConfig, logger *zap.Logger) (Publisher, error) {
	if cfg.URL == "" {
		logger.Info("AMQP not configured, order events disabled")
		return &noopPublisher{}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	return &rabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

func (p *rabbitPublisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, OrderCreatedRoutingKey, OrderEvent{
		OrderNumber: order.OrderNumber,
		Email:       order.Customer.Email,
		Total:       order.Total,
		CreatedAt:   order.CreatedAt,
	})
}

func (p *rabbitPublisher) OrderPaid(ctx context.Context, order *domain.Order, paidAt time.Time) error {
	return p.publish(ctx, OrderPaidRoutingKey, OrderEvent{
		OrderNumber: order.OrderNumber,
		Email:       order.Customer.Email,
		Total:       order.Total,
		PaidAt:      &paidAt,
		CreatedAt:   order.CreatedAt,
	})
}

func (p *rabbitPublisher) publish(ctx context.Context, routingKey string, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	p.logger.Debug("Published order event",
		zap.String("routing_key", routingKey),
		zap.String("order_number", event.OrderNumber),
	)
	return nil
}

func (p *rabbitPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			return err
		}
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

type noopPublisher struct{}

func (noopPublisher) OrderCreated(context.Context, *domain.Order) error { return nil }

func (noopPublisher) OrderPaid(context.Context, *domain.Order, time.Time) error { return nil }

func (noopPublisher) Close() error { return nil }
