package config

import (
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JwtSecret string
	JwtTTL    time.Duration

	// Server
	ApiPort string

	// Feed
	FeedPageSize     int
	FeedLowWaterMark int

	// Realtime
	RealtimeRetryDelay time.Duration

	// Caching
	ProfileCacheTTL time.Duration

	// Offers
	StaleOfferMaxAge time.Duration

	// App Defaults
	AppName string
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode, // Set from flag
	}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	// Helper function to get required env var
	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "liquidswap")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.JwtSecret, err = getRequiredEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.AppName = getEnv("APP_NAME", "LiquidSwap")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	jwtTTLSeconds, err := strconv.ParseInt(getEnv("JWT_TTL_SECONDS", "3600"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS: %w", err)
	}
	cfg.JwtTTL = time.Duration(jwtTTLSeconds) * time.Second

	cfg.FeedPageSize, err = strconv.Atoi(getEnv("FEED_PAGE_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEED_PAGE_SIZE: %w", err)
	}
	if cfg.FeedPageSize < 1 {
		return nil, fmt.Errorf("FEED_PAGE_SIZE must be at least 1")
	}

	cfg.FeedLowWaterMark, err = strconv.Atoi(getEnv("FEED_LOW_WATER_MARK", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid FEED_LOW_WATER_MARK: %w", err)
	}

	retryDelaySeconds, err := strconv.ParseInt(getEnv("REALTIME_RETRY_DELAY_SECONDS", "5"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid REALTIME_RETRY_DELAY_SECONDS: %w", err)
	}
	cfg.RealtimeRetryDelay = time.Duration(retryDelaySeconds) * time.Second

	profileCacheTTLSeconds, err := strconv.ParseInt(getEnv("PROFILE_CACHE_TTL_SECONDS", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROFILE_CACHE_TTL_SECONDS: %w", err)
	}
	cfg.ProfileCacheTTL = time.Duration(profileCacheTTLSeconds) * time.Second

	staleOfferMaxAgeDays, err := strconv.ParseInt(getEnv("STALE_OFFER_MAX_AGE_DAYS", "30"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid STALE_OFFER_MAX_AGE_DAYS: %w", err)
	}
	cfg.StaleOfferMaxAge = time.Duration(staleOfferMaxAgeDays) * 24 * time.Hour

	return cfg, nil
}
