package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/api"
	"github.com/nekogravitycat/clinic-booking-backend/internal/appointment"
	"github.com/nekogravitycat/clinic-booking-backend/internal/auth"
	"github.com/nekogravitycat/clinic-booking-backend/internal/doctor"
	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	// DBPool selects the Postgres repositories; nil uses in-memory stores.
	DBPool *pgxpool.Pool
	// Redis enables the doctor cache when non-nil.
	Redis          *redis.Client
	DoctorCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	Clock          schedule.Clock
	ClinicLocation *time.Location
	SkipPolicy     schedule.SkipPolicy
	BookingHorizon int

	BookingRatePerMin int
	Logger            *zap.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router             *gin.Engine
	JWTManager         *auth.JWTManager
	Generator          *schedule.Generator
	DoctorService      doctor.Service
	AppointmentService appointment.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = schedule.SystemClock{}
	}
	loc := cfg.ClinicLocation
	if loc == nil {
		loc = time.UTC
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	gen := schedule.NewGenerator(clock, schedule.WithLocation(loc), schedule.WithSkipPolicy(cfg.SkipPolicy))

	var (
		doctorRepo doctor.Repository
		apptRepo   appointment.Repository
	)
	if cfg.DBPool != nil {
		doctorRepo = doctor.NewPgxRepository(cfg.DBPool)
		apptRepo = appointment.NewPgxRepository(cfg.DBPool)
	} else {
		l.Warn("no database configured, using in-memory stores")
		doctorRepo = doctor.NewMemoryRepository()
		apptRepo = appointment.NewMemoryRepository()
	}
	if cfg.Redis != nil {
		doctorRepo = doctor.NewCachedRepository(doctorRepo, cfg.Redis, cfg.DoctorCacheTTL, l)
	}

	// Doctor Module
	doctorService := doctor.NewService(doctorRepo, l)

	// Appointment Module
	apptService := appointment.NewService(apptRepo, doctorService, gen, cfg.BookingHorizon, l)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		DoctorService:      doctorService,
		AppointmentService: apptService,
		JWTManager:         jwtManager,
		Logger:             l,
		BookingRatePerMin:  cfg.BookingRatePerMin,
	})

	return &Container{
		Router:             router,
		JWTManager:         jwtManager,
		Generator:          gen,
		DoctorService:      doctorService,
		AppointmentService: apptService,
	}
}
