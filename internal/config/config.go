package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"dunefest/internal/database"
	"dunefest/internal/external"
	"dunefest/internal/messaging"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Bearer tokens for the admin dashboard are verified with this secret;
	// the identity provider that issues them lives outside this service.
	AdminJWTSecret string

	// How often the in-process catalog snapshot is refreshed.
	CatalogRefreshInterval time.Duration

	// Registrations stuck PENDING longer than this are cancelled by the
	// consumers binary.
	RegistrationExpiry time.Duration

	Database      database.Config
	NATS          messaging.Config
	Elasticsearch ElasticsearchConfig
	Valkey        ValkeyConfig
	Payment       external.PaymentConfig
}

// ValkeyConfig holds the cache connection settings
type ValkeyConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load builds the configuration from environment variables. A .env file in
// the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CatalogRefreshInterval: time.Duration(getEnvInt("CATALOG_REFRESH_SEC", 5)) * time.Second,
		RegistrationExpiry:     time.Duration(getEnvInt("REGISTRATION_EXPIRY_MIN", 30)) * time.Minute,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "dunefest"),
			Password:           getEnv("DB_PASSWORD", "dunefest123"),
			DBName:             getEnv("DB_NAME", "dunefest"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "dunefest"),
			ClientID:  getEnv("NATS_CLIENT_ID", "dunefest-api"),
		},

		Elasticsearch: LoadElasticsearchConfig(),

		Valkey: ValkeyConfig{
			Addr:     getEnv("VALKEY_ADDR", "localhost:6379"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			DB:       getEnvInt("VALKEY_DB", 0),
		},

		Payment: external.PaymentConfig{
			BaseURL:  getEnv("PAYMENT_GATEWAY_URL", ""),
			Merchant: getEnv("PAYMENT_MERCHANT", ""),
			Password: getEnv("PAYMENT_PASSWORD", ""),
			Timeout:  time.Duration(getEnvInt("PAYMENT_TIMEOUT_SEC", 30)) * time.Second,
		},
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
