package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"dunefest/internal/config"
	"dunefest/internal/database"
	"dunefest/internal/logger"
	"dunefest/internal/models"
	"dunefest/internal/repository"
)

var (
	adminEmail = flag.String("admin", "", "Admin email to whitelist in addition to the defaults")
	setCurrent = flag.Bool("current", true, "Flag the seeded event as current")
)

// Seeder loads a working catalog for local development and staging: one
// event, the five packages, a block of gala tables, the standard addons and
// a handful of workshops.
type Seeder struct {
	repos *repository.Repositories
}

func main() {
	flag.Parse()

	logger.Init("info", "text")
	slog.Info("Starting catalog seeder...")

	cfg := config.Load()
	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	seeder := &Seeder{repos: repository.NewRepositories(db)}

	ctx := context.Background()
	if err := seeder.Run(ctx); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Catalog seeding completed successfully!")
}

func (s *Seeder) Run(ctx context.Context) error {
	eventID, err := s.seedEvent(ctx)
	if err != nil {
		return err
	}
	if err := s.seedPackages(ctx); err != nil {
		return err
	}
	if err := s.seedTables(ctx); err != nil {
		return err
	}
	if err := s.seedAddons(ctx); err != nil {
		return err
	}
	if err := s.seedWorkshops(ctx); err != nil {
		return err
	}
	if err := s.seedAdmins(ctx); err != nil {
		return err
	}

	if *setCurrent {
		if err := s.repos.Events.SetCurrent(ctx, eventID); err != nil {
			return err
		}
		slog.Info("Flagged event as current", "event_id", eventID)
	}

	return nil
}

func (s *Seeder) seedEvent(ctx context.Context) (int64, error) {
	now := time.Now()
	year := now.Year() + 1
	start := time.Date(year, time.March, 12, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)
	openDate := now.AddDate(0, -1, 0)
	closeDate := start.AddDate(0, 0, -7)

	event := &models.Event{
		Name:                  "Dune Dance Festival",
		Year:                  year,
		StartDate:             start,
		EndDate:               end,
		RegistrationOpenDate:  &openDate,
		RegistrationCloseDate: &closeDate,
		Venue:                 "Dubai World Trade Centre",
		IsActive:              true,
	}

	if err := s.repos.Events.Create(ctx, event); err != nil {
		return 0, err
	}
	slog.Info("Seeded event", "event_id", event.ID, "year", year)
	return event.ID, nil
}

func (s *Seeder) seedPackages(ctx context.Context) error {
	packages := []models.Package{
		{ID: "full", Name: "Full Pass", Price: 1200},
		{ID: "premium-accommodation-4nights", Name: "Premium + 4 Nights", Price: 3400},
		{ID: "premium-accommodation-3nights", Name: "Premium + 3 Nights", Price: 2900},
		{ID: "evening", Name: "Evening Pass", Price: 800},
		{ID: "custom", Name: "Custom", Price: 0},
	}

	for i := range packages {
		if err := s.repos.Packages.Upsert(ctx, &packages[i]); err != nil {
			return err
		}
	}
	slog.Info("Seeded packages", "count", len(packages))
	return nil
}

func (s *Seeder) seedTables(ctx context.Context) error {
	earlyBirdEnd := time.Now().AddDate(0, 2, 0)

	count := 0
	for number := 1; number <= 20; number++ {
		table := &models.GalaTable{
			TableNumber:    number,
			Price:          500,
			EarlyBirdPrice: 400,
			Seats:          10,
		}
		// Front tables cost more and carry no discount.
		if number <= 4 {
			table.Price = 750
			table.EarlyBirdPrice = 0
		} else {
			table.EarlyBirdEndDate = &earlyBirdEnd
		}

		if err := s.repos.Tables.Upsert(ctx, table); err != nil {
			return err
		}
		count++
	}
	slog.Info("Seeded gala tables", "count", count)
	return nil
}

func (s *Seeder) seedAddons(ctx context.Context) error {
	tshirtDesc := "Festival t-shirt"
	videoDesc := "Professional recording of your performance"
	desertDesc := "Return desert safari transfer"

	addons := []models.Addon{
		{ID: "tshirt", Name: "Festival T-Shirt", Price: 90, Description: &tshirtDesc, Kind: "sized", Sizes: []string{"S", "M", "L", "XL", "XXL"}},
		{ID: "video", Name: "Performance Video", Price: 250, Description: &videoDesc, Kind: "simple"},
		{ID: "desert-transport", Name: "Desert Safari Transfer", Price: 150, Description: &desertDesc, Kind: "transport"},
	}

	for i := range addons {
		if err := s.repos.Addons.Upsert(ctx, &addons[i]); err != nil {
			return err
		}
	}
	slog.Info("Seeded addons", "count", len(addons))
	return nil
}

func (s *Seeder) seedWorkshops(ctx context.Context) error {
	workshops := []models.Workshop{
		{ID: "musicality-basics", Title: "Musicality Basics", Level: "beginner", Capacity: 40},
		{ID: "advanced-styling", Title: "Advanced Styling", Level: "advanced", Capacity: 24},
		{ID: "partnerwork-lab", Title: "Partnerwork Lab", Level: "intermediate", Capacity: 30},
		{ID: "body-movement", Title: "Body Movement", Level: "open", Capacity: 50},
	}

	for i := range workshops {
		if err := s.repos.Workshops.Upsert(ctx, &workshops[i]); err != nil {
			return err
		}
	}
	slog.Info("Seeded workshops", "count", len(workshops))
	return nil
}

func (s *Seeder) seedAdmins(ctx context.Context) error {
	emails := []string{"ops@dunefest.example"}
	if *adminEmail != "" {
		emails = append(emails, *adminEmail)
	}

	for _, email := range emails {
		admin := &models.AdminUser{Email: email, IsActive: true}
		if err := s.repos.Admins.Create(ctx, admin); err != nil {
			return err
		}
	}
	slog.Info("Seeded admin users", "count", len(emails))
	return nil
}
