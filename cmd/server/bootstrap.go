package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/app"
	"github.com/nekogravitycat/clinic-booking-backend/internal/config"
	"github.com/nekogravitycat/clinic-booking-backend/internal/db"
	"github.com/nekogravitycat/clinic-booking-backend/internal/logger"
)

// Tokens minted locally by the book command; the API only verifies them.
const cliTokenTTL = 15 * time.Minute

type deps struct {
	cfg       *config.Config
	log       *zap.Logger
	container *app.Container
	closers   []func()
}

func (r *deps) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// bootstrap loads config, connects the optional stores and builds the container.
func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	rt := &deps{cfg: cfg, log: l}
	rt.closers = append(rt.closers, func() { _ = l.Sync() })

	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache, err = db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// The cache is optional; keep serving from the database.
			l.Warn("redis unavailable, doctor cache disabled", zap.Error(err))
		} else {
			rt.closers = append(rt.closers, func() { _ = cache.Close() })
		}
	}

	rt.container = app.NewContainer(app.Config{
		IsProduction:      cfg.IsProduction,
		ProdOrigins:       cfg.ProdOrigins,
		DBPool:            pool,
		Redis:             cache,
		DoctorCacheTTL:    cfg.DoctorCacheTTL,
		JWTSecret:         cfg.JWTSecret,
		JWTTTL:            cliTokenTTL,
		ClinicLocation:    cfg.ClinicLocation,
		SkipPolicy:        cfg.SlotSkipPolicy,
		BookingHorizon:    cfg.BookingHorizon,
		BookingRatePerMin: cfg.BookingRatePerMin,
		Logger:            l,
	})
	return rt, nil
}
