package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	apptHttp "github.com/nekogravitycat/clinic-booking-backend/internal/appointment/http"
	"github.com/nekogravitycat/clinic-booking-backend/internal/auth"
	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	doctorHttp "github.com/nekogravitycat/clinic-booking-backend/internal/doctor/http"
	"github.com/nekogravitycat/clinic-booking-backend/internal/logger"
)

// Config carries the services and settings the router is built from.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	DoctorService      doctor.Service
	AppointmentService appointment.Service
	JWTManager         *auth.JWTManager
	Logger             *zap.Logger
	BookingRatePerMin  int
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: one structured line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(logger.Middleware(l), logger.Recovery(l))

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	if len(config.AllowOrigins) == 0 {
		// cors refuses a config that allows nothing.
		config.AllowOriginFunc = func(string) bool { return false }
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// bookingLimit: Throttles appointment creation per client IP.
	bookingLimit := RateLimit(cfg.BookingRatePerMin, l)

	doctorHandler := doctorHttp.NewHandler(cfg.DoctorService)
	apptHandler := apptHttp.NewHandler(cfg.AppointmentService)

	r.GET("/healthz", Health)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		doctorHttp.RegisterRoutes(v1, doctorHandler, authMiddleware)
		apptHttp.RegisterRoutes(v1, apptHandler, authMiddleware, bookingLimit)
	}

	return r
}

func allowedOrigins(production bool, prodOrigins string) []string {
	if !production {
		return []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}

	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
