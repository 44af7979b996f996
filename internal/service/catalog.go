package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"dunefest/internal/cache"
	"dunefest/internal/logger"
	"dunefest/internal/messaging"
	"dunefest/internal/metrics"
	"dunefest/internal/models"
	"dunefest/internal/pricing"
	"dunefest/internal/repository"
)

// CatalogService owns the in-process catalog snapshot. The wizard and the
// pricing engine always read from the snapshot, never from the database
// directly; the snapshot is replaced atomically on an interval and
// immediately after any admin mutation.
type CatalogService struct {
	eventRepo    *repository.EventRepository
	packageRepo  *repository.PackageRepository
	tableRepo    *repository.TableRepository
	addonRepo    *repository.AddonRepository
	workshopRepo *repository.WorkshopRepository

	valkeyClient *cache.ValkeyClient
	natsClient   *messaging.NATSClient
	metrics      *metrics.Metrics

	refreshInterval time.Duration

	snapshot atomic.Pointer[pricing.Snapshot]
	catalog  atomic.Pointer[models.CatalogResponse]
}

func NewCatalogService(repos *repository.Repositories, valkeyClient *cache.ValkeyClient, natsClient *messaging.NATSClient, m *metrics.Metrics, refreshInterval time.Duration) *CatalogService {
	return &CatalogService{
		eventRepo:       repos.Events,
		packageRepo:     repos.Packages,
		tableRepo:       repos.Tables,
		addonRepo:       repos.Addons,
		workshopRepo:    repos.Workshops,
		valkeyClient:    valkeyClient,
		natsClient:      natsClient,
		metrics:         m,
		refreshInterval: refreshInterval,
	}
}

// Start loads the initial snapshot and refreshes it on the interval until
// ctx is cancelled. A failed refresh keeps serving the previous snapshot.
func (s *CatalogService) Start(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	go func() {
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.metrics != nil {
					if snap := s.snapshot.Load(); snap != nil {
						s.metrics.CatalogSnapshotAge.Set(time.Since(snap.TakenAt).Seconds())
					}
				}
				if err := s.Refresh(ctx); err != nil {
					logger.Get().Error("Catalog refresh failed, serving stale snapshot", "error", err)
				}
			}
		}
	}()

	return nil
}

// Refresh rebuilds the snapshot and the public catalog document from the
// database and swaps them in atomically.
func (s *CatalogService) Refresh(ctx context.Context) error {
	event, err := s.eventRepo.GetCurrent(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current event: %w", err)
	}

	packages, err := s.packageRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	tables, err := s.tableRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tables: %w", err)
	}
	addons, err := s.addonRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load addons: %w", err)
	}
	workshops, err := s.workshopRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load workshops: %w", err)
	}

	takenAt := time.Now()

	priceByPackage := make(map[pricing.PackageType]int64, len(packages))
	for _, p := range packages {
		priceByPackage[pricing.PackageType(p.ID)] = p.Price
	}

	snapTables := make([]pricing.Table, len(tables))
	for i, t := range tables {
		snapTables[i] = pricing.Table{
			Number:           t.TableNumber,
			Price:            t.Price,
			EarlyBirdPrice:   t.EarlyBirdPrice,
			EarlyBirdEndDate: t.EarlyBirdEndDate,
			Seats:            t.Seats,
		}
	}

	snapAddons := make([]pricing.Addon, len(addons))
	for i, a := range addons {
		snapAddons[i] = pricing.Addon{
			ID:    a.ID,
			Name:  a.Name,
			Price: a.Price,
			Kind:  pricing.AddonKind(a.Kind),
			Sizes: a.Sizes,
		}
	}

	snapWorkshops := make([]pricing.Workshop, len(workshops))
	for i, w := range workshops {
		snapWorkshops[i] = pricing.Workshop{
			ID:       w.ID,
			Title:    w.Title,
			Level:    w.Level,
			Capacity: w.Capacity,
			Enrolled: w.Enrolled,
			Price:    w.Price,
		}
	}

	s.snapshot.Store(pricing.NewSnapshot(takenAt, snapTables, snapAddons, snapWorkshops, priceByPackage))

	workshopResponses := make([]models.WorkshopResponse, len(workshops))
	for i, w := range workshops {
		workshopResponses[i] = models.NewWorkshopResponse(w)
	}

	catalog := &models.CatalogResponse{
		Event:     event,
		Packages:  packages,
		Tables:    tables,
		Addons:    addons,
		Workshops: workshopResponses,
		TakenAt:   takenAt,
	}
	s.catalog.Store(catalog)

	if s.valkeyClient != nil {
		if err := s.valkeyClient.SetCatalog(ctx, catalog); err != nil {
			logger.Get().Warn("Failed to cache catalog", "error", err)
		}
	}

	return nil
}

// Snapshot returns the current pricing snapshot. Never nil after Start.
func (s *CatalogService) Snapshot() *pricing.Snapshot {
	return s.snapshot.Load()
}

// Catalog returns the public catalog document.
func (s *CatalogService) Catalog() *models.CatalogResponse {
	return s.catalog.Load()
}

// CurrentEvent returns the current event from the catalog document, nil
// when no event is flagged current.
func (s *CatalogService) CurrentEvent() *models.Event {
	if c := s.catalog.Load(); c != nil {
		return c.Event
	}
	return nil
}

// Invalidate is called after every admin catalog mutation: it drops the
// cache entry, rebuilds the local snapshot synchronously and publishes the
// change for the audit trail. Other replicas converge on their next poll
// tick; nothing subscribes for an immediate refresh.
func (s *CatalogService) Invalidate(ctx context.Context, entity string) error {
	if s.valkeyClient != nil {
		if err := s.valkeyClient.InvalidateCatalog(ctx); err != nil {
			logger.Get().Warn("Failed to invalidate catalog cache", "error", err)
		}
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	if s.natsClient != nil {
		event := models.CatalogUpdatedEvent{Entity: entity, Timestamp: time.Now()}
		if err := s.natsClient.Publish(models.SubjectCatalogUpdated, event); err != nil {
			logger.Get().Error("Failed to publish catalog updated event",
				"error", err,
				"entity", entity)
		}
	}

	return nil
}

// UpsertTable creates or updates a gala table and refreshes the snapshot.
func (s *CatalogService) UpsertTable(ctx context.Context, t *models.GalaTable) error {
	if err := s.tableRepo.Upsert(ctx, t); err != nil {
		return fmt.Errorf("failed to upsert table: %w", err)
	}
	return s.Invalidate(ctx, "tables")
}

func (s *CatalogService) DeleteTable(ctx context.Context, number int) error {
	if err := s.tableRepo.Delete(ctx, number); err != nil {
		return fmt.Errorf("failed to delete table: %w", err)
	}
	return s.Invalidate(ctx, "tables")
}

// UpsertAddon creates or updates an addon and refreshes the snapshot. The
// variant tag is resolved before the write so legacy clients that omit it
// still produce a tagged row.
func (s *CatalogService) UpsertAddon(ctx context.Context, a *models.Addon) error {
	a.Kind = string(pricing.ResolveAddonKind(a.Kind, a.Sizes))
	if err := s.addonRepo.Upsert(ctx, a); err != nil {
		return fmt.Errorf("failed to upsert addon: %w", err)
	}
	return s.Invalidate(ctx, "addons")
}

func (s *CatalogService) DeleteAddon(ctx context.Context, id string) error {
	if err := s.addonRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete addon: %w", err)
	}
	return s.Invalidate(ctx, "addons")
}

func (s *CatalogService) UpsertWorkshop(ctx context.Context, w *models.Workshop) error {
	if err := s.workshopRepo.Upsert(ctx, w); err != nil {
		return fmt.Errorf("failed to upsert workshop: %w", err)
	}
	return s.Invalidate(ctx, "workshops")
}

func (s *CatalogService) DeleteWorkshop(ctx context.Context, id string) error {
	if err := s.workshopRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workshop: %w", err)
	}
	return s.Invalidate(ctx, "workshops")
}

func (s *CatalogService) UpsertPackage(ctx context.Context, p *models.Package) error {
	if err := s.packageRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("failed to upsert package: %w", err)
	}
	return s.Invalidate(ctx, "packages")
}
