package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/catalog"
	"github.com/davimluiz/copiacantinho-sub000/internal/config"
	"github.com/davimluiz/copiacantinho-sub000/internal/httpx"
	"github.com/davimluiz/copiacantinho-sub000/internal/logger"
	"github.com/davimluiz/copiacantinho-sub000/internal/messaging"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/printer"
	"github.com/davimluiz/copiacantinho-sub000/internal/services/history"
	"github.com/davimluiz/copiacantinho-sub000/internal/services/notification"
	"github.com/davimluiz/copiacantinho-sub000/internal/services/order"
	"github.com/davimluiz/copiacantinho-sub000/internal/services/printworker"
	"github.com/davimluiz/copiacantinho-sub000/internal/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Parse command line flags
	var (
		mode       = flag.String("mode", "", "Service mode (pos-service, print-worker, notification-subscriber, report)")
		configPath = flag.String("config", "config.yaml", "Path to the YAML config file")
		port       = flag.Int("port", 0, "HTTP port (overrides http.port)")
		workerName = flag.String("worker-name", "printer-1", "Worker name for print-worker mode")
	)
	flag.Parse()

	// Validate required mode flag
	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.HTTP.Port = *port
	}

	// Create logger
	log := logger.New(*mode, cfg.Log.Level)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":    *mode,
		"storage": cfg.Storage.Driver,
		"broker":  cfg.Broker.Driver,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	// Route to appropriate service
	switch *mode {
	case "pos-service":
		err = runPOSService(ctx, cfg, log)
	case "print-worker":
		err = runPrintWorker(ctx, cfg, log, *workerName)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log)
	case "report":
		err = runReport(ctx, cfg, log, os.Stdout)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runPOSService serves the HTTP API. With the local broker the print worker
// and notification subscriber run in the same process.
func runPOSService(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore(store, log)

	bus, err := messaging.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open message bus: %w", err)
	}
	defer bus.Close()

	log.Info("dependencies_ready", "Storage and message bus ready", requestID, map[string]interface{}{
		"storage": cfg.Storage.Driver,
		"broker":  cfg.Broker.Driver,
	})

	service := order.NewService(store, bus, catalog.Default(), log)
	if err := service.Load(ctx); err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(httpx.WithLogging(log))
	order.NewHandler(service, log).RegisterRoutes(router)
	history.NewHandler(service, printer.LayoutFromConfig(cfg), log).RegisterRoutes(router)

	server := httpx.New(cfg.HTTP.Port, router, cfg.HTTP.ShutdownTimeout, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })

	if isLocalBroker(cfg) {
		worker := newPrintWorker(cfg, bus, log, "in-process")
		subscriber := notification.NewSubscriber(bus, os.Stdout, log)
		g.Go(func() error { return worker.Start(gctx) })
		g.Go(func() error { return subscriber.Start(gctx) })
	}

	return g.Wait()
}

func runPrintWorker(ctx context.Context, cfg *config.Config, log *logger.Logger, name string) error {
	if isLocalBroker(cfg) {
		return errors.New("print-worker mode needs a network broker; the local bus only works inside pos-service")
	}

	bus, err := messaging.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open message bus: %w", err)
	}
	defer bus.Close()

	return newPrintWorker(cfg, bus, log, name).Start(ctx)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if isLocalBroker(cfg) {
		return errors.New("notification-subscriber mode needs a network broker; the local bus only works inside pos-service")
	}

	bus, err := messaging.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open message bus: %w", err)
	}
	defer bus.Close()

	return notification.NewSubscriber(bus, os.Stdout, log).Start(ctx)
}

// runReport prints today's and the all-time sales summary
func runReport(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer) error {
	store, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStore(store, log)

	var orders []models.Order
	if err := store.Load(ctx, storage.Orders, &orders); err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	rep := history.Build(orders, time.Now())
	fmt.Fprintf(out, "Hoje:  %d pedidos  %s\n", rep.Today.Count, printer.FormatMoney(rep.Today.Revenue))
	fmt.Fprintf(out, "Total: %d pedidos  %s\n", rep.All.Count, printer.FormatMoney(rep.All.Revenue))
	return nil
}

func newPrintWorker(cfg *config.Config, bus messaging.Bus, log *logger.Logger, name string) *printworker.Worker {
	transport := printer.NewFromConfig(cfg, printworker.NewNotifier(bus, log))
	return printworker.NewWorker(name, bus, transport, cfg.Printer.MinInterval, log)
}

func isLocalBroker(cfg *config.Config) bool {
	return cfg.Broker.Driver == "" || cfg.Broker.Driver == "local"
}

func closeStore(store storage.Store, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		log.Error("storage_close_failed", "Failed to close storage", "", err, nil)
	}
}
