package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
)

// ErrQueueFull is returned by the local bus when a topic's buffer is full
var ErrQueueFull = errors.New("topic queue is full")

// maxDeliveries is how many times a message reaches a handler before a
// failure drops it.
const maxDeliveries = 2

// MessageHandler processes one message body
type MessageHandler func(ctx context.Context, body []byte) error

// Bus carries receipt and notice messages between the POS service and its
// workers. Messages are JSON encoded.
type Bus interface {
	Publish(ctx context.Context, topic string, msg interface{}) error
	// Subscribe delivers messages of topic to handler until ctx is done.
	// It blocks and returns ctx.Err() on shutdown.
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// Open connects the bus named by cfg.Broker.Driver
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (Bus, error) {
	switch cfg.Broker.Driver {
	case "", "local":
		return NewLocalBus(log, 64), nil
	case "rabbitmq":
		conn, err := New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		return NewRabbitBus(conn, log, cfg.RabbitMQ.Prefetch), nil
	case "nats":
		return NewNATSBus(cfg.NATS, log)
	case "kafka":
		return NewKafkaBus(cfg.Kafka, log)
	default:
		return nil, fmt.Errorf("unknown broker driver %q", cfg.Broker.Driver)
	}
}

// deliver hands body to handler until it succeeds, maxDeliveries attempts
// have failed or ctx is done. It returns the attempt count and the last error.
func deliver(ctx context.Context, handler MessageHandler, body []byte) (int, error) {
	attempt := 1
	for {
		err := handler(ctx, body)
		if err == nil || attempt == maxDeliveries || ctx.Err() != nil {
			return attempt, err
		}
		attempt++
	}
}
