package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	LogLevel          string
	DBDSN             string
	JWTSecret         string
	ClinicLocation    *time.Location
	BookingHorizon    int
	SlotSkipPolicy    schedule.SkipPolicy
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	DoctorCacheTTL    time.Duration
	BookingRatePerMin int
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var err error
	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING
	if cfg.IsProduction && cfg.ProdOrigins == "" {
		return nil, fmt.Errorf("PROD_ORIGINS is required when APP_ENV=%s", PROD_STRING)
	}

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Empty DSN selects the in-memory stores
	cfg.DBDSN = os.Getenv("DB_DSN")

	// JWT secret is required to verify patient tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// Time zone that availability windows are expressed in (default: UTC)
	tz := getEnv("CLINIC_TIMEZONE", "UTC")
	cfg.ClinicLocation, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TIMEZONE: %w", err)
	}

	// How many days ahead a patient may book (default: 30)
	cfg.BookingHorizon, err = getEnvAsInt("BOOKING_HORIZON_DAYS", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_HORIZON_DAYS: %w", err)
	}
	if cfg.BookingHorizon < 0 {
		return nil, fmt.Errorf("BOOKING_HORIZON_DAYS must not be negative")
	}

	cfg.SlotSkipPolicy, err = schedule.ParseSkipPolicy(getEnv("SLOT_SKIP_POLICY", "elapsed"))
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_SKIP_POLICY: %w", err)
	}

	// Redis doctor cache (disabled when REDIS_ADDR is empty)
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttlStr := getEnv("DOCTOR_CACHE_TTL", "5m")
	cfg.DoctorCacheTTL, err = time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DOCTOR_CACHE_TTL: %w", err)
	}

	// Appointment creations allowed per client IP per minute (default: 30)
	cfg.BookingRatePerMin, err = getEnvAsInt("BOOKING_RATE_PER_MINUTE", 30)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_RATE_PER_MINUTE: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}
