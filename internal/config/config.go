// Package config loads client and server configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Repository kinds supported by the server
const (
	RepoMemory   = "memory"
	RepoPostgres = "postgres"
	RepoSQLite   = "sqlite"
)

// ClientConfig holds configuration of the portfolio client
type ClientConfig struct {
	StocksAPIURL    string
	DashboardAPIURL string
	PrefsPath       string
	LogLevel        string
	LogPretty       bool
}

// ServerConfig holds configuration of the reference backend
type ServerConfig struct {
	Port                 int
	RepoKind             string
	DBConnStr            string
	SQLitePath           string
	AlphaVantageAPIKey   string
	PriceRefreshSchedule string
	PriceDailyQuota      int
	SeedDemo             bool
	DevMode              bool
	LogLevel             string
	LogPretty            bool
}

// LoadClient reads client configuration from environment variables
func LoadClient() (*ClientConfig, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &ClientConfig{
		StocksAPIURL:    getEnv("STOCKS_API_URL", "http://localhost:8080/api/stocks"),
		DashboardAPIURL: getEnv("DASHBOARD_API_URL", "http://localhost:8080/api/dashboard"),
		PrefsPath:       getEnv("PREFS_PATH", defaultPrefsPath()),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogPretty:       getEnvAsBool("LOG_PRETTY", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that both API URLs are absolute
func (c *ClientConfig) Validate() error {
	for name, raw := range map[string]string{
		"STOCKS_API_URL":    c.StocksAPIURL,
		"DASHBOARD_API_URL": c.DashboardAPIURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	return nil
}

// LoadServer reads server configuration from environment variables
func LoadServer() (*ServerConfig, error) {
	_ = godotenv.Load()

	cfg := &ServerConfig{
		Port:                 getEnvAsInt("PORT", 8080),
		RepoKind:             strings.ToLower(getEnv("REPO_KIND", RepoMemory)),
		DBConnStr:            getEnv("DB_CONN_STR", ""),
		SQLitePath:           getEnv("SQLITE_PATH", "./data/stocks.db"),
		AlphaVantageAPIKey:   strings.TrimSpace(getEnv("ALPHAVANTAGE_API_KEY", "")),
		PriceRefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "@every 10m"),
		PriceDailyQuota:      getEnvAsInt("PRICE_DAILY_QUOTA", 25),
		SeedDemo:             getEnvAsBool("SEED_DEMO", false),
		DevMode:              getEnvAsBool("DEV_MODE", false),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnvAsBool("LOG_PRETTY", false),
	}

	if cfg.DBConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "stocktracker"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the server configuration for unusable values
func (c *ServerConfig) Validate() error {
	switch c.RepoKind {
	case RepoMemory, RepoPostgres, RepoSQLite:
	default:
		return fmt.Errorf("unknown REPO_KIND %q (want memory, postgres or sqlite)", c.RepoKind)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PriceDailyQuota <= 0 {
		return fmt.Errorf("PRICE_DAILY_QUOTA must be positive, got %d", c.PriceDailyQuota)
	}
	return nil
}

func defaultPrefsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "stocktracker-prefs.yaml"
	}
	return filepath.Join(dir, "stocktracker", "prefs.yaml")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
