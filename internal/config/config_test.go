package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	unsetEnv(t, "APP_ENV", "HTTP_ADDR", "DB_DSN", "CLINIC_TIMEZONE", "BOOKING_HORIZON_DAYS",
		"SLOT_SKIP_POLICY", "DOCTOR_CACHE_TTL", "BOOKING_RATE_PER_MINUTE")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "", cfg.DBDSN)
	assert.Equal(t, time.UTC, cfg.ClinicLocation)
	assert.Equal(t, 30, cfg.BookingHorizon)
	assert.Equal(t, schedule.SkipElapsed, cfg.SlotSkipPolicy)
	assert.Equal(t, 5*time.Minute, cfg.DoctorCacheTTL)
	assert.Equal(t, 30, cfg.BookingRatePerMin)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PROD_ORIGINS", "https://clinic.example.com")
	t.Setenv("BOOKING_HORIZON_DAYS", "14")
	t.Setenv("SLOT_SKIP_POLICY", "started")
	t.Setenv("REDIS_DB", "3")

	cfg, err := fromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, "https://clinic.example.com", cfg.ProdOrigins)
	assert.Equal(t, 14, cfg.BookingHorizon)
	assert.Equal(t, schedule.SkipStarted, cfg.SlotSkipPolicy)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "Missing JWT secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "Bad horizon", env: map[string]string{"JWT_SECRET": "s", "BOOKING_HORIZON_DAYS": "soon"}},
		{name: "Negative horizon", env: map[string]string{"JWT_SECRET": "s", "BOOKING_HORIZON_DAYS": "-1"}},
		{name: "Bad skip policy", env: map[string]string{"JWT_SECRET": "s", "SLOT_SKIP_POLICY": "never"}},
		{name: "Bad time zone", env: map[string]string{"JWT_SECRET": "s", "CLINIC_TIMEZONE": "Mars/Olympus"}},
		{name: "Production without origins", env: map[string]string{"JWT_SECRET": "s", "APP_ENV": "prod", "PROD_ORIGINS": ""}},
		{name: "Bad cache TTL", env: map[string]string{"JWT_SECRET": "s", "DOCTOR_CACHE_TTL": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := fromEnv()
			assert.Error(t, err)
		})
	}
}
