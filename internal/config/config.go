package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// AppEnv selects logger construction: "development" or "production".
	AppEnv string

	// DatasetPath points at the worldcities-style CSV the resolver loads
	// at startup.
	DatasetPath string

	// OpenMeteoBaseURL overrides the public forecast endpoint; empty
	// means the default.
	OpenMeteoBaseURL string

	// UpstreamTimeout bounds every outbound Open-Meteo call.
	UpstreamTimeout time.Duration

	// PrefetchCities are looked up on a fixed interval by the scheduler.
	PrefetchCities   []string
	PrefetchInterval time.Duration

	// Invocation history retention.
	HistoryMaxEntries int           // max number of invocations kept (0 = unlimited)
	HistoryMaxAge     time.Duration // max age of invocations (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "development")
	cfg.DatasetPath = getenvDefault("CITIES_CSV_PATH", "data/worldcities.csv")
	cfg.OpenMeteoBaseURL = os.Getenv("OPEN_METEO_BASE_URL")

	timeoutStr := getenvDefault("UPSTREAM_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	cfg.PrefetchCities = splitCities(os.Getenv("PREFETCH_CITIES"))

	intervalStr := getenvDefault("PREFETCH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PREFETCH_INTERVAL: %w", err)
	}
	cfg.PrefetchInterval = interval

	// History retention.
	cfg.HistoryMaxEntries = getenvInt("HISTORY_MAX_ENTRIES", 96)

	maxAgeStr := getenvDefault("HISTORY_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_MAX_AGE: %w", err)
	}
	cfg.HistoryMaxAge = maxAge

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// splitCities turns a comma-separated list into city names, skipping
// empty entries.
func splitCities(raw string) []string {
	if raw == "" {
		return nil
	}

	var cities []string
	for _, part := range strings.Split(raw, ",") {
		if city := strings.TrimSpace(part); city != "" {
			cities = append(cities, city)
		}
	}
	return cities
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
