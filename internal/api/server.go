package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dunefest/internal/cache"
	"dunefest/internal/config"
	"dunefest/internal/database"
	"dunefest/internal/external"
	"dunefest/internal/handlers"
	"dunefest/internal/logger"
	"dunefest/internal/messaging"
	"dunefest/internal/metrics"
	"dunefest/internal/middleware"
	"dunefest/internal/repository"
	"dunefest/internal/search"
	"dunefest/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories
	metrics  *metrics.Metrics
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Cache and search are optional: the API degrades to database-backed
	// catalog serving without them.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey.Addr, cfg.Valkey.Password, cfg.Valkey.DB)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, catalog cache disabled", "error", err)
		valkeyClient = nil
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		logger.Get().Warn("Elasticsearch unavailable, admin search disabled", "error", err)
		esClient = nil
	}

	paymentClient := external.NewPaymentClient(cfg.Payment)

	repos := repository.NewRepositories(db)
	m := metrics.New()
	services := service.NewServices(repos, natsClient, valkeyClient, esClient, paymentClient, m, cfg)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(m.GinMiddleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		es:       esClient,
		services: services,
		repos:    repos,
		metrics:  m,
	}

	server.setupRoutes()

	return server
}

// Start loads the catalog snapshot and begins the refresh loop. Must be
// called before Run.
func (s *Server) Start(ctx context.Context) error {
	return s.services.Catalog.Start(ctx)
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.valkey, s.metrics)

	api := s.router.Group("/api")
	{
		// Public catalog, read-only
		api.GET("/catalog", h.GetCatalog)
		api.GET("/packages", h.ListPackages)
		api.GET("/tables", h.ListTables)
		api.GET("/addons", h.ListAddons)
		api.GET("/workshops", h.ListWorkshops)
		api.GET("/events", h.ListEvents)
		api.GET("/events/current", h.GetCurrentEvent)

		// Registration wizard
		registrations := api.Group("/registrations")
		{
			registrations.POST("/quote", h.Quote)
			registrations.POST("", h.SubmitRegistration)
			registrations.GET("/:id", h.GetRegistration)
			registrations.GET("/:id/qr", h.GetRegistrationQR)
			registrations.POST("/:id/payment", h.InitiatePayment)
		}

		// Payment gateway callbacks
		payments := api.Group("/payments")
		{
			payments.GET("/success", h.NotifyPaymentCompleted)
			payments.GET("/fail", h.NotifyPaymentFailed)
			payments.POST("/notifications", h.OnPaymentUpdates)
		}

		// Admin dashboard, bearer token required
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(s.config.AdminJWTSecret, s.repos.Admins))
		{
			events := admin.Group("/events")
			{
				events.POST("", h.CreateEvent)
				events.GET("", h.ListEvents)
				events.GET("/:id", h.GetEvent)
				events.PUT("/:id", h.UpdateEvent)
				events.DELETE("/:id", h.DeleteEvent)
				events.POST("/:id/current", h.SetCurrentEvent)
				events.GET("/:id/layout", h.GetSeatingLayout)
				events.PUT("/:id/layout", h.SaveSeatingLayout)
			}

			admin.PUT("/tables", h.UpsertTable)
			admin.DELETE("/tables/:number", h.DeleteTable)
			admin.PUT("/addons", h.UpsertAddon)
			admin.DELETE("/addons/:id", h.DeleteAddon)
			admin.PUT("/workshops", h.UpsertWorkshop)
			admin.DELETE("/workshops/:id", h.DeleteWorkshop)
			admin.PUT("/packages/:id", h.UpdatePackage)

			admin.GET("/registrations", h.SearchRegistrations)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "dunefest-api",
		"version": "1.0.0",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
