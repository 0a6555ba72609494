package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Timezone  string
	Database  DatabaseConfig
	Sheets    SheetsConfig
	Cache     CacheConfig
	Planning  PlanningConfig
	Fleet     FleetConfig
	Notify    NotifyConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// DSN returns a libpq-style connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.Username, d.Password, d.Database,
	)
}

// SheetsConfig points at the spreadsheet holding the stock ledger
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	APIKey          string
	BaseStockRange  string
	EntriesRange    string
}

// CacheConfig holds TTLs for the read-through caches
type CacheConfig struct {
	LedgerTTL  time.Duration
	CatalogTTL time.Duration
}

// PlanningConfig holds the business constants used by capacity planning and search
type PlanningConfig struct {
	RouteTargetCapacityKg float64
	ExtraTruckThresholdKg float64
	AvailabilitySearchDays int
	DeliverySearchDays     int
}

// FleetConfig holds where the fleet document is persisted
type FleetConfig struct {
	StoreDir string
}

// NotifyConfig holds the Postgres channel used for order-change notifications
type NotifyConfig struct {
	Channel string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3210"),
		JWTSecret: jwtSecret,
		Timezone:  getEnv("APP_TIMEZONE", "America/Sao_Paulo"),
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "freshroute"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("SHEETS_SPREADSHEET_ID"),
			CredentialsFile: os.Getenv("SHEETS_CREDENTIALS_FILE"),
			APIKey:          os.Getenv("SHEETS_API_KEY"),
			BaseStockRange:  getEnv("SHEETS_BASE_STOCK_RANGE", "Estoque!A2:B"),
			EntriesRange:    getEnv("SHEETS_ENTRIES_RANGE", "Entradas!A2:C"),
		},
		Cache: CacheConfig{
			LedgerTTL:  time.Duration(getEnvInt("LEDGER_CACHE_TTL_SECONDS", 60)) * time.Second,
			CatalogTTL: time.Duration(getEnvInt("CATALOG_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Planning: PlanningConfig{
			RouteTargetCapacityKg:  getEnvFloat("ROUTE_TARGET_CAPACITY_KG", 5000),
			ExtraTruckThresholdKg:  getEnvFloat("EXTRA_TRUCK_THRESHOLD_KG", 2500),
			AvailabilitySearchDays: getEnvInt("AVAILABILITY_SEARCH_DAYS", 30),
			DeliverySearchDays:     getEnvInt("DELIVERY_SEARCH_DAYS", 60),
		},
		Fleet: FleetConfig{
			StoreDir: getEnv("FLEET_STORE_DIR", "./data"),
		},
		Notify: NotifyConfig{
			Channel: getEnv("ORDERS_NOTIFY_CHANNEL", "orders_changed"),
		},
	}, nil
}

// Location resolves the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("⚠️  Unknown APP_TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f <= 0 {
		log.Printf("⚠️  Invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return f
}
