package consumers

import (
	"context"
	"log/slog"

	"dunefest/internal/config"
	"dunefest/internal/database"
	"dunefest/internal/messaging"
	"dunefest/internal/models"
	"dunefest/internal/repository"
	"dunefest/internal/search"
)

// ConsumerService feeds the registrations search index from NATS events.
// It runs as its own binary so indexing lag never slows down the API.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos, esClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

// Repositories exposes the repos for the background jobs sharing this
// process.
func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

// NATS exposes the messaging client for the background jobs.
func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.SubjectRegistrationCreated, "consumers", cs.handlers.HandleRegistrationCreated); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectRegistrationCancelled, "consumers", cs.handlers.HandleRegistrationCancelled); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectPaymentCompleted, "consumers", cs.handlers.HandlePaymentCompleted); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectPaymentFailed, "consumers", cs.handlers.HandlePaymentFailed); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
