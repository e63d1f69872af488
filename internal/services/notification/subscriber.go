package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/messaging"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

// Subscriber shows print notices to the operator
type Subscriber struct {
	bus    messaging.Bus
	out    io.Writer
	logger *logger.Logger
}

// NewSubscriber creates a new notification subscriber writing to out
func NewSubscriber(bus messaging.Bus, out io.Writer, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		bus:    bus,
		out:    out,
		logger: logger,
	}
}

// Start consumes print notices until ctx is done
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.bus.Subscribe(ctx, models.TopicPrintNotice, s.handleNotification)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("notification consumer failed: %w", err)
	}

	s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
	return nil
}

// handleNotification processes incoming print notices
func (s *Subscriber) handleNotification(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var notice models.PrintNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return nil
	}

	s.logger.Debug("notification_received", "Received print notice", requestID, map[string]interface{}{
		"order_id": notice.OrderID,
		"kind":     notice.Kind,
	})

	fmt.Fprintln(s.out, formatNotification(&notice))

	s.logger.Info("notification_displayed", "Notification displayed to user", requestID, map[string]interface{}{
		"order_id":  notice.OrderID,
		"kind":      notice.Kind,
		"transport": notice.Transport,
		"timestamp": notice.Timestamp.Format("2006-01-02 15:04:05"),
	})
	return nil
}

// formatNotification creates a human-readable notification message
func formatNotification(notice *models.PrintNotice) string {
	timestamp := notice.Timestamp.Format("2006-01-02 15:04:05")

	switch notice.Kind {
	case models.NoticeFallback:
		return fmt.Sprintf(
			"🖨️  [%s] Printer unavailable for order %s (%s). Receipt sent to the generic printer instead.",
			timestamp,
			notice.OrderID,
			notice.Reason,
		)
	case models.NoticeFailed:
		return fmt.Sprintf(
			"❌ [%s] Receipt for order %s was not printed: %s. Use reprint once the printer is back.",
			timestamp,
			notice.OrderID,
			notice.Reason,
		)
	default:
		return fmt.Sprintf(
			"📋 [%s] Order %s: %s via %s.",
			timestamp,
			notice.OrderID,
			notice.Kind,
			notice.Transport,
		)
	}
}
