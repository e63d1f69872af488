package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/rabbitmq/amqp091-go"
)

// Publisher writes JSON messages to RabbitMQ exchanges
type Publisher struct {
	source  channelSource
	logger  *logger.Logger
	timeout time.Duration
}

func NewPublisher(source channelSource, log *logger.Logger) *Publisher {
	return &Publisher{
		source:  source,
		logger:  log,
		timeout: 10 * time.Second,
	}
}

// Publish sends msg along r. Receipts are persistent; notices are not worth
// keeping across a broker restart.
func (p *Publisher) Publish(ctx context.Context, r route, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ch, err := p.source.Channel(ctx)
	if err != nil {
		return fmt.Errorf("no channel to publish on: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Transient,
		Timestamp:    time.Now(),
		Body:         body,
	}
	if r.persistent {
		publishing.DeliveryMode = amqp091.Persistent
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	fields := map[string]interface{}{
		"exchange":     r.exchange,
		"routing_key":  r.key,
		"message_size": len(body),
	}
	if err := ch.PublishWithContext(ctx, r.exchange, r.key, false, false, publishing); err != nil {
		p.logger.Error("message_publish_failed", fmt.Sprintf("Failed to publish to %s", r.exchange), "", err, fields)
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug("message_published", fmt.Sprintf("Published to %s", r.exchange), "", fields)
	return nil
}
