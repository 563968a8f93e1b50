package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"hotel-pms-backend/config"
	"hotel-pms-backend/internal/api"
	"hotel-pms-backend/internal/audit"
	"hotel-pms-backend/internal/db"
	"hotel-pms-backend/internal/drafting"
	"hotel-pms-backend/internal/events"
	"hotel-pms-backend/internal/ledger"
	"hotel-pms-backend/internal/notification"
	"hotel-pms-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "hotel-pms ", log.LstdFlags)

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	var webpushOptions *webpush.Options
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Println("VAPID keys not configured, push notifications disabled")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Optional AMQP event publishing
	var publisher *events.Publisher
	if cfg.Events.URL != "" {
		publisher, err = events.Connect(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			logger.Fatalf("failed to connect event publisher: %v", err)
		}
		defer publisher.Close()
		logger.Printf("event publisher connected, exchange %q", cfg.Events.Exchange)
	}

	ledgerSvc := ledger.NewService(appStore, publisher)
	auditProc := audit.NewProcessor(appStore, ledgerSvc, publisher)
	draftingClient := drafting.NewClient(cfg.Drafting)
	if !draftingClient.Enabled() {
		logger.Println("drafting service not configured, message drafting disabled")
	}

	var pool *notification.WorkerPool
	if webpushOptions != nil {
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
	}

	// Align room statuses with the booking ledger on startup
	if n, err := ledgerSvc.ReconcileRoomStatus(ctx); err != nil {
		logger.Printf("room status reconciliation failed: %v", err)
	} else if n > 0 {
		logger.Printf("reconciled %d room statuses on startup", n)
	}

	// Initialize router
	handler := api.NewHandler(appStore, ledgerSvc, auditProc, draftingClient, pool, webpushOptions)
	router := api.NewRouter(handler, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
