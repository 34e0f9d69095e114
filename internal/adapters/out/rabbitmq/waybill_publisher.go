// Package rabbitmq publishes domain events to a RabbitMQ exchange so other
// services (warehouse, notifications) can react to labeling outcomes.
package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"shipping/internal/core/ports"
)

// RoutingKeyWaybillCreated is the routing key for waybill creation messages.
const RoutingKeyWaybillCreated = "shipping.waybill.created"

// waybillCreatedMessage is the wire shape of a WaybillCreated event.
type waybillCreatedMessage struct {
	OrderID         string    `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	TrackingNumbers []string  `json:"tracking_numbers"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// WaybillPublisher forwards WaybillCreated events to a durable topic
// exchange. It is registered as an event bus subscriber; publish failures
// are logged and never propagate into the labeling workflow.
type WaybillPublisher struct {
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewWaybillPublisher opens a channel on the given connection and declares
// the durable topic exchange.
func NewWaybillPublisher(conn *amqp.Connection, exchange string, logger *zap.Logger) (*WaybillPublisher, error) {
	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err = channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = channel.Close()
		return nil, err
	}

	return &WaybillPublisher{
		channel:  channel,
		exchange: exchange,
		logger:   logger.With(zap.String("component", "waybill_publisher")),
	}, nil
}

// HandleWaybillCreated publishes the event as a persistent JSON message.
func (p *WaybillPublisher) HandleWaybillCreated(_ context.Context, event ports.WaybillCreated) {
	body, err := json.Marshal(waybillCreatedMessage{
		OrderID:         event.OrderID.String(),
		OrderNumber:     event.OrderNumber,
		TrackingNumbers: event.TrackingNumbers,
		OccurredAt:      event.OccurredAt,
	})
	if err != nil {
		p.logger.Error("failed to encode waybill event",
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
		return
	}

	err = p.channel.Publish(p.exchange, RoutingKeyWaybillCreated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		p.logger.Error("failed to publish waybill event",
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
	}
}

// Close releases the channel.
func (p *WaybillPublisher) Close() error {
	return p.channel.Close()
}
