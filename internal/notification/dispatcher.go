package notification

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// Broker is the outbound side of the message queue.
type Broker interface {
	Publish(ctx context.Context, v any) error
}

// EventHandler handles one delivered event.
type EventHandler interface {
	Handle(ctx context.Context, e TicketIssued) error
}

// Dispatcher hands TicketIssued events to the broker when one is configured,
// otherwise to an in-process buffered queue drained by Run. Publish never
// blocks the caller.
type Dispatcher struct {
	broker  Broker
	handler EventHandler
	queue   chan TicketIssued
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(broker Broker, handler EventHandler, buffer int, log *zap.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Dispatcher{
		broker:  broker,
		handler: handler,
		queue:   make(chan TicketIssued, buffer),
		log:     log.With(zap.String("worker", "notification_dispatcher")),
	}
}

func (d *Dispatcher) Publish(events []TicketIssued) {
	if len(events) == 0 {
		return
	}

	if d.broker != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.publishToBroker(events)
		}()
		return
	}

	for _, e := range events {
		select {
		case d.queue <- e:
		default:
			d.log.Error("Notification queue full, event dropped",
				zap.String("ticket_code", e.TicketCode),
				zap.String("booking_id", e.BookingID.String()))
		}
	}
}

func (d *Dispatcher) publishToBroker(events []TicketIssued) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	for _, e := range events {
		if err := d.broker.Publish(ctx, e); err != nil {
			d.log.Error("Failed to publish ticket issued event",
				zap.Error(err),
				zap.String("ticket_code", e.TicketCode),
				zap.String("booking_id", e.BookingID.String()))
		}
	}
}

// Run drains the in-process queue until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("Starting in-process notification consumer")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Notification consumer stopped")
			return
		case e := <-d.queue:
			if err := d.handler.Handle(ctx, e); err != nil {
				d.log.Error("Failed to handle ticket issued event",
					zap.Error(err),
					zap.String("ticket_code", e.TicketCode))
			}
		}
	}
}

// Consume handles broker deliveries until the channel closes or ctx is done.
// Bad or failing messages are nacked without requeue.
func (d *Dispatcher) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	d.log.Info("Starting broker notification consumer")
	for {
		select {
		case <-ctx.Done():
			d.log.Info("Notification consumer stopped")
			return
		case msg, ok := <-deliveries:
			if !ok {
				d.log.Warn("Delivery channel closed")
				return
			}
			d.handleDelivery(ctx, msg)
		}
	}
}

func (d *Dispatcher) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	var e TicketIssued
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		d.log.Error("Invalid ticket issued message", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	if err := d.handler.Handle(ctx, e); err != nil {
		d.log.Error("Failed to handle ticket issued event",
			zap.Error(err),
			zap.String("ticket_code", e.TicketCode))
		_ = msg.Nack(false, false)
		return
	}

	_ = msg.Ack(false)
}

// Wait blocks until in-flight broker publishes finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
