package printer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

var ErrNoDevice = errors.New("no printer device configured")

// Transport sends an order's receipt to some output
type Transport interface {
	Name() string
	Send(ctx context.Context, order models.Order) error
}

// NotifyFunc receives notices about degraded printing
type NotifyFunc func(ctx context.Context, notice *models.PrintNotice)

// USBTransport writes ESC/POS bytes to a printer device node such as
// /dev/usb/lp0.
type USBTransport struct {
	Path    string
	Timeout time.Duration
	Layout  Layout

	open func(path string) (io.WriteCloser, error)
}

func NewUSBTransport(path string, timeout time.Duration, layout Layout) *USBTransport {
	return &USBTransport{
		Path:    path,
		Timeout: timeout,
		Layout:  layout,
		open: func(path string) (io.WriteCloser, error) {
			return os.OpenFile(path, os.O_WRONLY, 0)
		},
	}
}

func (t *USBTransport) Name() string {
	return "usb"
}

// Send gives up after Timeout. A write stuck in the kernel keeps its
// goroutine until the device returns.
func (t *USBTransport) Send(ctx context.Context, order models.Order) error {
	if t.Path == "" {
		return ErrNoDevice
	}

	data, err := EncodeESCPOS(t.Layout.Build(order))
	if err != nil {
		return err
	}

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		w, err := t.open(t.Path)
		if err != nil {
			done <- fmt.Errorf("failed to open printer %s: %w", t.Path, err)
			return
		}
		_, err = w.Write(data)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			err = fmt.Errorf("failed to write to printer %s: %w", t.Path, err)
		}
		done <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("printer %s did not respond: %w", t.Path, ctx.Err())
	case err := <-done:
		return err
	}
}

// SpoolTransport is the generic print path: plain-text receipts written to a
// directory for the OS print queue, or to a writer when Dir is empty.
type SpoolTransport struct {
	Dir    string
	Out    io.Writer
	Layout Layout

	mu sync.Mutex
}

func (t *SpoolTransport) Name() string {
	return "spool"
}

func (t *SpoolTransport) Send(_ context.Context, order models.Order) error {
	text := t.Layout.Build(order).PlainText()

	if t.Dir == "" {
		if t.Out == nil {
			return errors.New("spool has neither directory nor writer")
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		_, err := io.WriteString(t.Out, text)
		return err
	}

	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create spool dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.txt", time.Now().UTC().Format("20060102T150405.000"), shortID(order.ID))
	if err := os.WriteFile(filepath.Join(t.Dir, name), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to spool receipt: %w", err)
	}
	return nil
}

// FallbackTransport tries Primary and, when it fails, prints through
// Fallback. Either way a failed primary is reported through Notify.
type FallbackTransport struct {
	Primary  Transport
	Fallback Transport
	Notify   NotifyFunc
}

func (t *FallbackTransport) Name() string {
	return t.Primary.Name() + "+" + t.Fallback.Name()
}

func (t *FallbackTransport) Send(ctx context.Context, order models.Order) error {
	primaryErr := t.Primary.Send(ctx, order)
	if primaryErr == nil {
		return nil
	}

	fallbackErr := t.Fallback.Send(ctx, order)
	if fallbackErr == nil {
		t.notify(ctx, models.NewPrintNotice(order.ID, models.NoticeFallback, t.Primary.Name(), primaryErr))
		return nil
	}

	err := errors.Join(primaryErr, fallbackErr)
	t.notify(ctx, models.NewPrintNotice(order.ID, models.NoticeFailed, t.Name(), err))
	return fmt.Errorf("receipt not printed: %w", err)
}

func (t *FallbackTransport) notify(ctx context.Context, n *models.PrintNotice) {
	if t.Notify != nil {
		t.Notify(ctx, n)
	}
}

// LayoutFromConfig builds the receipt layout for the configured shop
func LayoutFromConfig(cfg *config.Config) Layout {
	return Layout{
		Shop: Shop{
			Name:    cfg.Shop.Name,
			Phone:   cfg.Shop.Phone,
			Address: cfg.Shop.Address,
		},
		Columns: cfg.Printer.Columns,
	}
}

// NewFromConfig returns the USB transport backed by the spool, or the spool
// alone when no device is configured.
func NewFromConfig(cfg *config.Config, notify NotifyFunc) Transport {
	layout := LayoutFromConfig(cfg)
	spool := &SpoolTransport{Dir: cfg.Printer.SpoolDir, Out: os.Stdout, Layout: layout}
	if cfg.Printer.Device == "" {
		return spool
	}
	return &FallbackTransport{
		Primary:  NewUSBTransport(cfg.Printer.Device, cfg.Printer.Timeout, layout),
		Fallback: spool,
		Notify:   notify,
	}
}
