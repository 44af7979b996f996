package service

import (
	"dunefest/internal/cache"
	"dunefest/internal/config"
	"dunefest/internal/external"
	"dunefest/internal/messaging"
	"dunefest/internal/metrics"
	"dunefest/internal/repository"
	"dunefest/internal/search"
)

type Services struct {
	Events        *EventService
	Catalog       *CatalogService
	Registrations *RegistrationService
	Layouts       *LayoutService
}

func NewServices(repos *repository.Repositories, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient, esClient *search.ElasticsearchClient, paymentClient *external.PaymentClient, m *metrics.Metrics, cfg *config.Config) *Services {
	catalogService := NewCatalogService(repos, valkeyClient, natsClient, m, cfg.CatalogRefreshInterval)
	eventService := NewEventService(repos.Events, catalogService, natsClient)
	registrationService := NewRegistrationService(repos, catalogService, paymentClient, esClient, natsClient)
	layoutService := NewLayoutService(repos.Layouts, repos.Events)

	return &Services{
		Events:        eventService,
		Catalog:       catalogService,
		Registrations: registrationService,
		Layouts:       layoutService,
	}
}
