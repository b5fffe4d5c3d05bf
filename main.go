package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okfngroup/hr-selfservice/internal/condo"
	"github.com/okfngroup/hr-selfservice/internal/config"
	"github.com/okfngroup/hr-selfservice/internal/hr"
	"github.com/okfngroup/hr-selfservice/internal/interview"
	"github.com/okfngroup/hr-selfservice/internal/scheduler"
	"github.com/okfngroup/hr-selfservice/internal/secrets"
	"github.com/okfngroup/hr-selfservice/internal/server"
	"github.com/okfngroup/hr-selfservice/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize document store
	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize secret source
	secretSource, err := secrets.NewSource(cfg.Secrets)
	if err != nil {
		logrus.Fatalf("Failed to initialize secret source: %v", err)
	}

	// Wire the condo sync job
	job := condo.NewJob(
		secretSource,
		condo.NewSessionAcquirer(cfg.Condo),
		condo.NewRoomFetcher(cfg.Condo),
		condo.NewPublisher(store),
		store,
	)

	// Initialize the daily scheduler
	sched, err := scheduler.New(cfg.Scheduler, job)
	if err != nil {
		logrus.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Initialize HTTP server for API endpoints
	httpServer := server.NewServer(
		cfg.Server,
		store,
		hr.NewService(store),
		interview.NewService(cfg.Interview, store),
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start HTTP server
	go func() {
		logrus.Infof("Starting HTTP server on port %d", cfg.Server.Port)
		if err := httpServer.Start(); err != nil {
			logrus.Errorf("HTTP server error: %v", err)
		}
	}()

	// Start the condo sync scheduler
	if err := sched.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}

	// Wait for shutdown signal
	<-sigChan
	logrus.Info("Shutdown signal received, gracefully shutting down...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown services
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	sched.Stop()
	cancel()
	logrus.Info("Shutdown complete")
}
