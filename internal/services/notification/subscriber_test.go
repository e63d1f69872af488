package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/messaging"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

func TestFormatNotification(t *testing.T) {
	ts := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		notice models.PrintNotice
		want   []string
	}{
		{
			name:   "fallback",
			notice: models.PrintNotice{OrderID: "o1", Kind: models.NoticeFallback, Reason: "no device", Timestamp: ts},
			want:   []string{"2025-01-10 12:00:00", "o1", "no device", "generic printer"},
		},
		{
			name:   "failed",
			notice: models.PrintNotice{OrderID: "o2", Kind: models.NoticeFailed, Reason: "disk full", Timestamp: ts},
			want:   []string{"o2", "not printed", "disk full"},
		},
		{
			name:   "unknown kind",
			notice: models.PrintNotice{OrderID: "o3", Kind: "queued", Transport: "usb", Timestamp: ts},
			want:   []string{"o3", "queued", "usb"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatNotification(&tt.notice)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("formatNotification() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestHandleNotificationWritesLine(t *testing.T) {
	var out bytes.Buffer
	s := NewSubscriber(messaging.NewLocalBus(logger.Discard(), 1), &out, logger.Discard())

	body, _ := json.Marshal(models.PrintNotice{OrderID: "o1", Kind: models.NoticeFallback})
	if err := s.handleNotification(context.Background(), body); err != nil {
		t.Fatalf("handleNotification() error = %v", err)
	}
	if !strings.Contains(out.String(), "o1") {
		t.Errorf("output = %q", out.String())
	}

	if err := s.handleNotification(context.Background(), []byte("not json")); err != nil {
		t.Errorf("malformed notice should be dropped, got %v", err)
	}
}
