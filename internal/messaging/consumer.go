package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/rabbitmq/amqp091-go"
)

// Consumer reads one queue with manual acknowledgements
type Consumer struct {
	source   channelSource
	logger   *logger.Logger
	queue    string
	tag      string
	prefetch int
	timeout  time.Duration

	ch amqpChannel
}

func NewConsumer(source channelSource, log *logger.Logger, queue, tag string, prefetch int) *Consumer {
	return &Consumer{
		source:   source,
		logger:   log,
		queue:    queue,
		tag:      tag,
		prefetch: prefetch,
		timeout:  30 * time.Second,
	}
}

// Run hands deliveries to handler until ctx is done, reconnecting whenever
// the broker closes the delivery channel.
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	for {
		deliveries, err := c.consume(ctx)
		if err != nil {
			return err
		}

		for open := true; open; {
			select {
			case <-ctx.Done():
				c.logger.Info("consumer_stopped", fmt.Sprintf("Stopped consuming %s", c.queue), "", nil)
				return ctx.Err()
			case d, ok := <-deliveries:
				if !ok {
					open = false
					continue
				}
				c.handle(ctx, d, handler)
			}
		}

		c.logger.Warn("consumer_channel_closed", fmt.Sprintf("Delivery channel for %s closed, reconnecting", c.queue), "", nil)
		if err := c.source.Reconnect(ctx); err != nil {
			return fmt.Errorf("failed to reconnect consumer: %w", err)
		}
	}
}

func (c *Consumer) consume(ctx context.Context) (<-chan amqp091.Delivery, error) {
	ch, err := c.source.Channel(ctx)
	if err != nil {
		return nil, fmt.Errorf("no channel to consume on: %w", err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}
	deliveries, err := ch.Consume(c.queue, c.tag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", c.queue, err)
	}
	c.ch = ch

	c.logger.Info("consumer_started", fmt.Sprintf("Consuming %s", c.queue), "", map[string]interface{}{
		"queue":    c.queue,
		"consumer": c.tag,
		"prefetch": c.prefetch,
	})
	return deliveries, nil
}

// handle acks a processed delivery. A failed one is requeued the first time
// and dropped once the broker has marked it redelivered.
func (c *Consumer) handle(ctx context.Context, d amqp091.Delivery, handler MessageHandler) {
	hctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := handler(hctx, d.Body)
	fields := map[string]interface{}{
		"queue":        c.queue,
		"routing_key":  d.RoutingKey,
		"delivery_tag": d.DeliveryTag,
		"duration_ms":  time.Since(start).Milliseconds(),
	}

	if err == nil {
		c.logger.Debug("message_processed", "Message processed", "", fields)
		if ackErr := d.Ack(false); ackErr != nil {
			c.logger.Error("message_ack_failed", "Failed to ack message", "", ackErr, fields)
		}
		return
	}

	requeue := !d.Redelivered
	fields["requeued"] = requeue
	c.logger.Error("message_processing_failed", "Failed to process message", "", err, fields)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		c.logger.Error("message_nack_failed", "Failed to nack message", "", nackErr, fields)
	}
}

// Cancel stops deliveries to this consumer; the connection stays open
func (c *Consumer) Cancel() error {
	if c.ch == nil {
		return nil
	}
	if err := c.ch.Cancel(c.tag, false); err != nil {
		c.logger.Error("consumer_cancel_failed", "Failed to cancel consumer", "", err, nil)
		return err
	}
	return nil
}
