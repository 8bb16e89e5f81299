package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/nekogravitycat/clinic-booking-backend/internal/schedule"
)

const cacheKeyPrefix = "doctor:"

type cachedRepository struct {
	Repository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedRepository caches GetByID results in Redis.
// Redis failures are logged and the call falls through to repo.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration, l *zap.Logger) Repository {
	if l == nil {
		l = zap.NewNop()
	}
	return &cachedRepository{
		Repository: repo,
		client:     client,
		ttl:        ttl,
		logger:     l.Named("doctor_cache"),
	}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (r *cachedRepository) GetByID(ctx context.Context, id string) (*Doctor, error) {
	key := cacheKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var d Doctor
		if err := json.Unmarshal(raw, &d); err == nil {
			return &d, nil
		}
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	d, err := r.Repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(d); err != nil {
		r.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
	} else if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return d, nil
}

func (r *cachedRepository) ReplaceAvailability(ctx context.Context, id string, windows []schedule.Window) error {
	if err := r.Repository.ReplaceAvailability(ctx, id, windows); err != nil {
		return err
	}
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		r.logger.Warn("cache invalidation failed", zap.String("key", cacheKey(id)), zap.Error(err))
	}
	return nil
}
