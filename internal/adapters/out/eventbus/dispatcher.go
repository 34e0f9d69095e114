// Package eventbus provides the in-process dispatcher behind domain event
// publishing. Subscribers are registered at composition time; publishing
// happens after the owning transaction committed, so a subscriber failure
// can never roll back the workflow that raised the event.
package eventbus

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"shipping/internal/core/ports"
)

// Subscriber handles one WaybillCreated event. Subscribers own their error
// handling; the dispatcher only shields callers from panics.
type Subscriber func(ctx context.Context, event ports.WaybillCreated)

// Dispatcher implements ports.EventPublisher by fanning events out to the
// registered subscribers in registration order. Safe for concurrent use.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	logger      *zap.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger.With(zap.String("component", "event_dispatcher")),
	}
}

var _ ports.EventPublisher = (*Dispatcher)(nil)

// SubscribeWaybillCreated registers a subscriber for WaybillCreated events.
func (d *Dispatcher) SubscribeWaybillCreated(subscriber Subscriber) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, subscriber)
}

// PublishWaybillCreated delivers the event to every subscriber. A panicking
// subscriber is logged and does not stop delivery to the remaining ones.
func (d *Dispatcher) PublishWaybillCreated(ctx context.Context, event ports.WaybillCreated) {
	d.mu.RLock()
	subscribers := append([]Subscriber(nil), d.subscribers...)
	d.mu.RUnlock()

	for _, subscriber := range subscribers {
		d.deliver(ctx, subscriber, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, subscriber Subscriber, event ports.WaybillCreated) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event subscriber panicked",
				zap.String("order_id", event.OrderID.String()),
				zap.Any("panic", r))
		}
	}()

	subscriber(ctx, event)
}
