package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"frontdesk-backend/config"
	"frontdesk-backend/internal/api"
	"frontdesk-backend/internal/db"
	"frontdesk-backend/internal/events"
	"frontdesk-backend/internal/liveview"
	"frontdesk-backend/internal/notification"
	"frontdesk-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "frontdesk ", log.LstdFlags)

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

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%v", err)
	}
	logger.Println("Server gracefully stopped")
}

func run(cfg *config.Config, logger *log.Logger) error {
	var webpushOptions *webpush.Options
	if cfg.Push.Enabled {
		if cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "" {
			return errors.New("push is enabled but VAPID keys are not configured; generate them and add them to your config file")
		}
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.Enabled {
		rabbit, err := events.DialRabbit(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			return fmt.Errorf("failed to connect to event broker: %w", err)
		}
		publisher = rabbit
		logger.Printf("publishing state changes to exchange %s", cfg.Events.Exchange)
	}
	defer publisher.Close()

	live := liveview.New(store.NewWatchSource(appStore, cfg.Sync.PollInterval), appStore, liveview.Options{
		TotalTables:        cfg.Sync.TotalTables,
		StaleAfter:         cfg.Sync.StaleAfter,
		EnforceTransitions: cfg.Sync.Enforce(),
		Events:             publisher,
	})

	if webpushOptions != nil && cfg.Sync.NotifyNewRequests {
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions,
			time.Duration(cfg.Sync.NotifyDedupeMinutes)*time.Minute)
		pool.Start(ctx)

		updates, unsubscribe := live.Updates()
		defer unsubscribe()
		go pool.Watch(ctx, updates)
		logger.Printf("service request alerts enabled with %d workers", cfg.WorkerPool.Size)
	}

	release, err := live.Open(ctx)
	if err != nil {
		return err
	}
	defer release()
	logger.Printf("live views open, polling every %s", cfg.Sync.PollInterval)

	router := api.NewRouter(cfg.Server, live, appStore, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
		// Request contexts end with ctx so open event streams close on shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Println("Shutdown signal received, stopping services...")
	case err := <-serverErr:
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	return nil
}
