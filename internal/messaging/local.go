package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
)

// LocalBus is an in-process bus for single-binary deployments. Each topic is
// a buffered queue; messages published before anyone subscribes wait in the
// buffer.
type LocalBus struct {
	mu     sync.Mutex
	queues map[string]chan []byte
	size   int
	logger *logger.Logger
	closed bool
}

func NewLocalBus(log *logger.Logger, size int) *LocalBus {
	if size < 1 {
		size = 1
	}
	return &LocalBus{
		queues: make(map[string]chan []byte),
		size:   size,
		logger: log,
	}
}

func (b *LocalBus) queue(topic string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[topic]
	if !ok {
		q = make(chan []byte, b.size)
		b.queues[topic] = q
	}
	return q
}

func (b *LocalBus) Publish(_ context.Context, topic string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return fmt.Errorf("bus closed")
	}

	select {
	case b.queue(topic) <- body:
		b.logger.Debug("message_published", fmt.Sprintf("Published message to %s", topic), "", map[string]interface{}{
			"topic":        topic,
			"message_size": len(body),
		})
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, topic)
	}
}

// Subscribe drains topic until ctx is done. A failing message is retried
// once and then dropped.
func (b *LocalBus) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	q := b.queue(topic)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case body := <-q:
			if attempts, err := deliver(ctx, handler, body); err != nil {
				b.logger.Error("message_dropped", "Failed to process message", "", err, map[string]interface{}{
					"topic":    topic,
					"attempts": attempts,
				})
			}
		}
	}
}

func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}
