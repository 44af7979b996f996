package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"dunefest/internal/config"
	"dunefest/internal/database"
	"dunefest/internal/logger"
	"dunefest/internal/repository"
	"dunefest/internal/search"
)

const batchSize = 500

// Rebuilds the registrations search index from Postgres. Safe to run while
// the consumers are live: indexing is idempotent by document id.
func main() {
	var afterID int64
	flag.Int64Var(&afterID, "after-id", 0, "Resume indexing after this registration id")
	flag.Parse()

	logger.Init("info", "text")
	slog.Info("Starting registration reindex", "after_id", afterID)

	cfg := config.Load()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	registrationRepo := repository.NewRegistrationRepository(db)

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	if err := reindex(context.Background(), registrationRepo, esClient, afterID); err != nil {
		log.Fatalf("Reindex failed: %v", err)
	}

	slog.Info("Reindex completed successfully")
}

func reindex(ctx context.Context, registrationRepo *repository.RegistrationRepository, esClient *search.ElasticsearchClient, afterID int64) error {
	start := time.Now()
	indexed := 0

	for {
		batch, err := registrationRepo.List(ctx, afterID, batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			doc := search.NewRegistrationDocument(&batch[i])
			if err := esClient.IndexRegistration(ctx, doc); err != nil {
				return err
			}
			indexed++
		}

		afterID = batch[len(batch)-1].ID
		slog.Info("Indexed batch", "count", len(batch), "last_id", afterID)
	}

	slog.Info("Indexing finished", "total", indexed, "elapsed", time.Since(start).String())
	return nil
}
