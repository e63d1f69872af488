package printworker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/messaging"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/printer"
	"golang.org/x/time/rate"
)

// Worker consumes receipt messages and prints them, one at a time and no
// faster than the configured interval.
type Worker struct {
	name      string
	bus       messaging.Bus
	transport printer.Transport
	limiter   *rate.Limiter
	logger    *logger.Logger
}

// NewWorker creates a print worker. A zero interval disables pacing.
func NewWorker(name string, bus messaging.Bus, transport printer.Transport, interval time.Duration, log *logger.Logger) *Worker {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Worker{
		name:      name,
		bus:       bus,
		transport: transport,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    log,
	}
}

// Start consumes until ctx is done
func (w *Worker) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	w.logger.Info("worker_started", fmt.Sprintf("Print worker %s started", w.name), requestID, map[string]interface{}{
		"worker_name": w.name,
		"transport":   w.transport.Name(),
	})

	err := w.bus.Subscribe(ctx, models.TopicReceipt, w.handleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("receipt consumer failed: %w", err)
	}

	w.logger.Info("worker_stopped", fmt.Sprintf("Print worker %s stopped", w.name), requestID, nil)
	return nil
}

// handleMessage prints one receipt. Malformed messages are dropped; a failed
// print is returned so brokers that redeliver can retry it.
func (w *Worker) handleMessage(ctx context.Context, body []byte) error {
	var msg models.ReceiptMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		w.logger.Error("message_parsing_failed", "Failed to parse receipt message", "", err, nil)
		return nil
	}

	requestID := msg.RequestID
	if requestID == "" {
		requestID = logger.GenerateRequestID()
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("print pacing interrupted: %w", err)
	}

	start := time.Now()
	if err := w.transport.Send(ctx, msg.Order); err != nil {
		w.logger.Error("receipt_print_failed", fmt.Sprintf("Failed to print order %s", msg.Order.ID), requestID, err, map[string]interface{}{
			"order_id": msg.Order.ID,
			"reprint":  msg.Reprint,
		})
		return err
	}

	w.logger.Info("receipt_printed", fmt.Sprintf("Printed order %s", msg.Order.ID), requestID, map[string]interface{}{
		"order_id":    msg.Order.ID,
		"reprint":     msg.Reprint,
		"total":       msg.Order.Total.StringFixed(2),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// NewNotifier returns a printer.NotifyFunc that logs the notice and
// publishes it for the notification subscriber.
func NewNotifier(bus messaging.Bus, log *logger.Logger) printer.NotifyFunc {
	return func(ctx context.Context, notice *models.PrintNotice) {
		log.Warn("printer_notice", fmt.Sprintf("Printing for order %s: %s", notice.OrderID, notice.Kind), "", map[string]interface{}{
			"order_id":  notice.OrderID,
			"kind":      notice.Kind,
			"transport": notice.Transport,
			"reason":    notice.Reason,
		})

		if err := bus.Publish(ctx, models.TopicPrintNotice, notice); err != nil {
			log.Error("notification_publish_failed", "Failed to publish print notice", "", err, map[string]interface{}{
				"order_id": notice.OrderID,
			})
		}
	}
}
