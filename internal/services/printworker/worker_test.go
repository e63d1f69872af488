package printworker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/messaging"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/printer"
	"github.com/shopspring/decimal"
)

type recordingTransport struct {
	mu     sync.Mutex
	err    error
	orders []models.Order
	sent   chan string
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) Send(_ context.Context, order models.Order) error {
	r.mu.Lock()
	r.orders = append(r.orders, order)
	r.mu.Unlock()
	if r.sent != nil {
		r.sent <- order.ID
	}
	return r.err
}

func receipt(t *testing.T, id string) []byte {
	t.Helper()
	body, err := json.Marshal(models.NewReceiptMessage(models.Order{ID: id, Total: decimal.NewFromInt(10)}, false, "req"))
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHandleMessagePrints(t *testing.T) {
	transport := &recordingTransport{}
	w := NewWorker("test", messaging.NewLocalBus(logger.Discard(), 1), transport, 0, logger.Discard())

	if err := w.handleMessage(context.Background(), receipt(t, "o1")); err != nil {
		t.Fatalf("handleMessage() error = %v", err)
	}
	if len(transport.orders) != 1 || transport.orders[0].ID != "o1" {
		t.Errorf("printed = %+v", transport.orders)
	}
}

func TestHandleMessageDropsMalformed(t *testing.T) {
	transport := &recordingTransport{}
	w := NewWorker("test", messaging.NewLocalBus(logger.Discard(), 1), transport, 0, logger.Discard())

	if err := w.handleMessage(context.Background(), []byte("{oops")); err != nil {
		t.Errorf("malformed message should be dropped, got %v", err)
	}
	if len(transport.orders) != 0 {
		t.Error("malformed message reached the printer")
	}
}

func TestHandleMessageReturnsPrintFailure(t *testing.T) {
	transport := &recordingTransport{err: errors.New("paper out")}
	w := NewWorker("test", messaging.NewLocalBus(logger.Discard(), 1), transport, 0, logger.Discard())

	if err := w.handleMessage(context.Background(), receipt(t, "o1")); err == nil {
		t.Error("expected print failure to be returned")
	}
}

func TestWorkerConsumesFromBus(t *testing.T) {
	bus := messaging.NewLocalBus(logger.Discard(), 8)
	transport := &recordingTransport{sent: make(chan string, 2)}
	w := NewWorker("test", bus, transport, time.Millisecond, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	for _, id := range []string{"o1", "o2"} {
		msg := models.NewReceiptMessage(models.Order{ID: id}, false, "")
		if err := bus.Publish(ctx, models.TopicReceipt, msg); err != nil {
			t.Fatal(err)
		}
	}

	for _, want := range []string{"o1", "o2"} {
		select {
		case got := <-transport.sent:
			if got != want {
				t.Errorf("printed %s, want %s", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("order %s not printed", want)
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Start() = %v, want nil on shutdown", err)
	}
}

func TestNotifierPublishesNotice(t *testing.T) {
	bus := messaging.NewLocalBus(logger.Discard(), 1)
	var notify printer.NotifyFunc = NewNotifier(bus, logger.Discard())

	notify(context.Background(), models.NewPrintNotice("o1", models.NoticeFallback, "usb", errors.New("unplugged")))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got := make(chan models.PrintNotice, 1)
	go bus.Subscribe(ctx, models.TopicPrintNotice, func(_ context.Context, body []byte) error {
		var n models.PrintNotice
		if err := json.Unmarshal(body, &n); err != nil {
			return err
		}
		got <- n
		return nil
	})

	select {
	case n := <-got:
		if n.OrderID != "o1" || n.Kind != models.NoticeFallback {
			t.Errorf("notice = %+v", n)
		}
	case <-ctx.Done():
		t.Fatal("notice not published")
	}
}
