package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bits-and-bites/internal/config"
	"bits-and-bites/internal/database"
	"bits-and-bites/internal/docstore"
	"bits-and-bites/internal/logger"
	"bits-and-bites/internal/messaging"
	"bits-and-bites/internal/services/catalog"
	"bits-and-bites/internal/services/order"
)

func main() {
	var (
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Create logger
	log := logger.New("storefront")
	requestID := logger.GenerateRequestID()

	log.Info("service_started", "Starting storefront backend", requestID, map[string]interface{}{
		"port":            cfg.Server.Port,
		"storage_backend": cfg.Storage.Backend,
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

	if err := run(ctx, cfg, log, requestID); err != nil {
		log.Error("service_failed", "Storefront backend failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, requestID string) error {
	// Initialize the document store backend
	store, err := newStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close(context.Background())

	log.Info("storage_connected", fmt.Sprintf("Connected to %s document store", cfg.Storage.Backend), requestID, nil)

	// Initialize messaging when enabled
	var publisher order.EventPublisher
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(cfg, log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()

		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
		publisher = messaging.NewPublisher(conn, log)
	}

	// Initialize services and handlers
	orderService := order.NewService(store, publisher, cfg.Storage.Backend, log)
	orderHandler := order.NewHandler(orderService, log)
	catalogHandler := catalog.NewHandler(log)

	mux := http.NewServeMux()
	orderHandler.SetupRoutes(mux)
	catalogHandler.SetupRoutes(mux)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: order.WithCORS(mux),
	}

	// Start HTTP server in goroutine
	go func() {
		log.Info("server_started", fmt.Sprintf("Storefront backend listening on port %d", cfg.Server.Port), requestID, map[string]interface{}{
			"port": cfg.Server.Port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// newStore builds the configured document store backend.
func newStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (docstore.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx, "migrations"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return docstore.NewPostgresStore(db, log), nil
	case "mongodb":
		return docstore.NewMongoStore(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
