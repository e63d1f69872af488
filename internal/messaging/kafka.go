package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/segmentio/kafka-go"
)

type kafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaBus maps each topic onto a Kafka topic of the same name
type KafkaBus struct {
	writer    kafkaWriter
	newReader func(topic string) kafkaReader
	logger    *logger.Logger
}

func NewKafkaBus(cfg config.KafkaConfig, log *logger.Logger) (*KafkaBus, error) {
	brokers := cfg.BrokerList()
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	return &KafkaBus{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		newReader: func(topic string) kafkaReader {
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers:  brokers,
				GroupID:  cfg.GroupID + "-" + topic,
				Topic:    topic,
				MinBytes: 1,
				MaxBytes: 10e6,
			})
		},
		logger: log,
	}, nil
}

func (b *KafkaBus) Publish(ctx context.Context, topic string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = b.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Subscribe reads topic as part of the configured consumer group. A failing
// message is retried once and then committed and dropped; a message cut
// short by shutdown stays uncommitted and is read again on the next start.
func (b *KafkaBus) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	reader := b.newReader(topic)
	defer reader.Close()

	b.logger.Info("consumer_started", fmt.Sprintf("Reading kafka topic %s", topic), "", nil)

	for {
		m, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		if attempts, err := deliver(ctx, handler, m.Value); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Error("message_dropped", "Failed to process message", "", err, map[string]interface{}{
				"topic":     m.Topic,
				"partition": m.Partition,
				"offset":    m.Offset,
				"attempts":  attempts,
			})
		}

		if err := reader.CommitMessages(ctx, m); err != nil {
			b.logger.Error("message_commit_failed", "Failed to commit offset", "", err, nil)
		}
	}
}

func (b *KafkaBus) Close() error {
	return b.writer.Close()
}
