package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	"github.com/nekogravitycat/clinic-booking-backend/internal/auth"
	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(2, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))

	// Buckets are per IP.
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"))
}

func TestRateLimit_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(0, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	doctors := doctor.NewService(doctor.NewMemoryRepository(), nil)
	gen := schedule.NewGenerator(schedule.SystemClock{})
	r := NewRouter(Config{
		DoctorService:      doctors,
		AppointmentService: appointment.NewService(appointment.NewMemoryRepository(), doctors, gen, 30, nil),
		JWTManager:         auth.NewJWTManager("secret", time.Hour),
		BookingRatePerMin:  10,
	})

	tests := []struct {
		name   string
		method string
		path   string
		code   int
	}{
		{name: "Health", method: http.MethodGet, path: "/healthz", code: http.StatusOK},
		{name: "Doctor lookup is public", method: http.MethodGet, path: "/v1/doctors/00000000-0000-0000-0000-000000000000", code: http.StatusNotFound},
		{name: "Creating doctors needs auth", method: http.MethodPost, path: "/v1/doctors", code: http.StatusUnauthorized},
		{name: "Booking needs auth", method: http.MethodPost, path: "/v1/appointments", code: http.StatusUnauthorized},
		{name: "Calendar needs auth", method: http.MethodGet, path: "/v1/doctors/00000000-0000-0000-0000-000000000000/appointments", code: http.StatusUnauthorized},
		{name: "Unknown route", method: http.MethodGet, path: "/v1/nope", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		allowedOrigins(true, " https://a.example, ,https://b.example "))
	assert.Contains(t, allowedOrigins(false, "https://ignored.example"), "http://localhost:3000")
}
