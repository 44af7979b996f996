package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dunefest/cmd/consumers/jobs"
	"dunefest/internal/config"
	"dunefest/internal/consumers"
	"dunefest/internal/logger"
)

func main() {
	log.Println("Starting consumers service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Own client ID so the API and consumers never collide on NATS
	cfg.NATS.ClientID = "dunefest-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := consumerService.Repositories()
	expirationJob := jobs.NewRegistrationExpirationJob(
		repos.Registrations,
		repos.Workshops,
		consumerService.NATS(),
		cfg.RegistrationExpiry,
	)
	expirationJob.Start(ctx)

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	expirationJob.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
