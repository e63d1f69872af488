package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/nats-io/nats.go"
)

// NATSBus publishes each topic as a NATS subject. Subscribers join a queue
// group per topic so each message goes to one of them; core NATS does not
// redeliver, so a failing message is retried once in place.
type NATSBus struct {
	nc     *nats.Conn
	logger *logger.Logger
}

func NewNATSBus(cfg config.NATSConfig, log *logger.Logger) (*NATSBus, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("pos"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSBus{nc: nc, logger: log}, nil
}

func (b *NATSBus) Publish(_ context.Context, topic string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := b.nc.Publish(topic, body); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (b *NATSBus) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	sub, err := b.nc.QueueSubscribe(topic, "pos-"+topic, func(m *nats.Msg) {
		if attempts, err := deliver(ctx, handler, m.Data); err != nil {
			b.logger.Error("message_dropped", "Failed to process message", "", err, map[string]interface{}{
				"subject":  m.Subject,
				"attempts": attempts,
			})
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	b.logger.Info("consumer_started", fmt.Sprintf("Subscribed to subject %s", topic), "", nil)

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil {
		b.logger.Error("consumer_cancel_failed", "Failed to unsubscribe", "", err, nil)
	}
	return ctx.Err()
}

func (b *NATSBus) Close() error {
	return b.nc.Drain()
}
