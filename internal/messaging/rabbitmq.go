package messaging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/rabbitmq/amqp091-go"
)

// Exchange and queue names of the RabbitMQ topology
const (
	ReceiptsExchange      = "receipts_topic"
	NotificationsExchange = "notifications_fanout"
	PrintQueue            = "print_queue"
	NotificationsQueue    = "notifications_queue"
)

// amqpChannel is the part of *amqp091.Channel the bus uses
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Cancel(consumer string, noWait bool) error
}

// channelSource hands out a live channel. Reconnect drops the current one
// and dials again.
type channelSource interface {
	Channel(ctx context.Context) (amqpChannel, error)
	Reconnect(ctx context.Context) error
}

// route is where a bus topic lands in the topology
type route struct {
	exchange   string
	key        string
	queue      string
	persistent bool
}

// routeFor maps notice.* topics onto the fanout exchange and everything else
// onto the receipts exchange, keyed by the topic itself.
func routeFor(topic string) route {
	if strings.HasPrefix(topic, "notice.") {
		return route{exchange: NotificationsExchange, queue: NotificationsQueue}
	}
	return route{exchange: ReceiptsExchange, key: topic, queue: PrintQueue, persistent: true}
}

var topology = []struct {
	exchange string
	kind     string
	queue    string
	key      string
}{
	{ReceiptsExchange, amqp091.ExchangeTopic, PrintQueue, "receipt.*"},
	{NotificationsExchange, amqp091.ExchangeFanout, NotificationsQueue, ""},
}

// declareTopology declares the durable exchanges and queues and binds them
func declareTopology(ch amqpChannel) error {
	for _, t := range topology {
		if err := ch.ExchangeDeclare(t.exchange, t.kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", t.exchange, err)
		}
		if _, err := ch.QueueDeclare(t.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", t.queue, err)
		}
		if err := ch.QueueBind(t.queue, t.key, t.exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue %s to %s: %w", t.queue, t.exchange, err)
		}
	}
	return nil
}

// RabbitBus carries receipts through print_queue and fans notices out to
// notifications_queue.
type RabbitBus struct {
	source    channelSource
	closer    io.Closer
	publisher *Publisher
	logger    *logger.Logger
	prefetch  int
}

func NewRabbitBus(conn *Connection, log *logger.Logger, prefetch int) *RabbitBus {
	return newRabbitBus(conn, conn, log, prefetch)
}

func newRabbitBus(source channelSource, closer io.Closer, log *logger.Logger, prefetch int) *RabbitBus {
	if prefetch < 1 {
		prefetch = 1
	}
	return &RabbitBus{
		source:    source,
		closer:    closer,
		publisher: NewPublisher(source, log),
		logger:    log,
		prefetch:  prefetch,
	}
}

func (b *RabbitBus) Publish(ctx context.Context, topic string, msg interface{}) error {
	return b.publisher.Publish(ctx, routeFor(topic), msg)
}

func (b *RabbitBus) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	consumer := NewConsumer(b.source, b.logger, routeFor(topic).queue, "pos-"+topic, b.prefetch)
	defer consumer.Cancel()

	return consumer.Run(ctx, handler)
}

func (b *RabbitBus) Close() error {
	return b.closer.Close()
}
