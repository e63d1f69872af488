package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/rabbitmq/amqp091-go"
)

const dialAttempts = 5

// Connection owns one AMQP connection and channel and redials when either
// has been closed by the broker.
type Connection struct {
	mu      sync.Mutex
	url     string
	logger  *logger.Logger
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// New dials RabbitMQ and declares the topology
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Connection, error) {
	c := &Connection{url: cfg.RabbitMQURL(), logger: log}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.dial(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// dial retries with a linear backoff. Callers hold mu.
func (c *Connection) dial(ctx context.Context) error {
	var err error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		if err = c.open(); err == nil {
			c.logger.Info("rabbitmq_connected", "Connected to RabbitMQ", "", map[string]interface{}{
				"attempt": attempt,
			})
			return nil
		}
		if attempt == dialAttempts {
			break
		}

		wait := time.Duration(attempt) * 2 * time.Second
		c.logger.Warn("rabbitmq_connection_failed", fmt.Sprintf("RabbitMQ unavailable, retrying in %v", wait), "", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", dialAttempts, err)
}

func (c *Connection) open() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return err
	}
	c.conn, c.channel = conn, ch
	return nil
}

func (c *Connection) closed() bool {
	return c.conn == nil || c.conn.IsClosed() || c.channel == nil || c.channel.IsClosed()
}

// Channel returns the current channel, redialing first if it is gone
func (c *Connection) Channel(ctx context.Context) (amqpChannel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed() {
		c.release()
		if err := c.dial(ctx); err != nil {
			return nil, err
		}
	}
	return c.channel, nil
}

func (c *Connection) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.release()
	return c.dial(ctx)
}

func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.release()
}

func (c *Connection) release() error {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	if errors.Is(err, amqp091.ErrClosed) {
		return nil
	}
	return err
}
