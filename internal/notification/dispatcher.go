package notification

import (
	"github.com/tickethub/ticket-booking/pkg/rabbitmq"
	"go.uber.org/zap"
)

type publisher interface {
	Publish(routingKey string, payload any) error
}

// Dispatcher queues payloads in-process and publishes them to the
// notification exchange from a single worker goroutine, decoupling the
// booking path from broker latency. A full queue drops the payload
// rather than blocking the caller.
type Dispatcher struct {
	pub    publisher
	logger *zap.Logger
	queue  chan Payload
	done   chan struct{}
}

func NewDispatcher(pub publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		pub:    pub,
		logger: logger,
		queue:  make(chan Payload, 256),
		done:   make(chan struct{}),
	}
}

func (d *Dispatcher) Start() {
	go d.run()
}

// Stop drains queued payloads and waits for the worker to exit.
// Notify must not be called after Stop.
func (d *Dispatcher) Stop() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) Notify(payload Payload) {
	select {
	case d.queue <- payload:
	default:
		d.logger.Warn("notification queue full, dropping payload",
			zap.String("type", string(payload.Type)),
			zap.String("template", payload.Template),
			zap.String("recipient", payload.Recipient))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for payload := range d.queue {
		routingKey := rabbitmq.RoutingKey(string(payload.Type))
		if err := d.pub.Publish(routingKey, payload); err != nil {
			d.logger.Warn("failed to publish notification",
				zap.String("routing_key", routingKey),
				zap.String("recipient", payload.Recipient),
				zap.Error(err))
			continue
		}
		d.logger.Info("notification queued",
			zap.String("type", string(payload.Type)),
			zap.String("template", payload.Template),
			zap.String("recipient", payload.Recipient))
	}
}
