package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"multitoko-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "cart:"

// Repository persists whole carts per shopper session.
type Repository interface {
	Load(ctx context.Context, session string) (Cart, error)
	Save(ctx context.Context, session string, c Cart) error
}

type repository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRepository(rdb *redis.Client, ttl time.Duration) Repository {
	return &repository{rdb: rdb, ttl: ttl}
}

func key(session string) string {
	return keyPrefix + session
}

// Load returns an empty cart when the session has nothing stored.
func (r *repository) Load(ctx context.Context, session string) (Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "LoadCart"),
	)

	raw, err := r.rdb.Get(ctx, key(session)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Clear(), nil
	}
	if err != nil {
		log.Error("failed to load cart", zap.Error(err))
		return Cart{}, err
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		log.Warn("discarding unreadable cart", zap.Error(err))
		return Clear(), nil
	}
	recompute(&c)
	return c, nil
}

// Save writes c and refreshes the session TTL; an empty cart deletes the key.
func (r *repository) Save(ctx context.Context, session string, c Cart) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SaveCart"),
	)

	if c.Empty() {
		if err := r.rdb.Del(ctx, key(session)).Err(); err != nil {
			log.Error("failed to delete cart", zap.Error(err))
			return err
		}
		return nil
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, key(session), data, r.ttl).Err(); err != nil {
		log.Error("failed to save cart", zap.Error(err))
		return err
	}
	return nil
}
