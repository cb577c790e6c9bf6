package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/civic-report/civic-report-service/internal/config"
)

// RedisSnapshotter keeps the envelope under a single Redis key.
type RedisSnapshotter struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisSnapshotter connects to Redis using the provided configuration.
func NewRedisSnapshotter(cfg config.RedisConfig, logger *zap.Logger) *RedisSnapshotter {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &RedisSnapshotter{client: client, key: cfg.SnapshotKey, logger: logger}
}

// Load fetches the envelope from the snapshot key. Corrupt or versioned-off
// data resolves to "no prior state".
func (r *RedisSnapshotter) Load(ctx context.Context) (*Envelope, bool, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.logger.Warn("discarding corrupt snapshot", zap.String("key", r.key), zap.Error(err))
		return nil, false, nil
	}
	if env.SchemaVersion != SchemaVersion {
		r.logger.Warn("discarding snapshot with unknown schema version",
			zap.Int("found", env.SchemaVersion), zap.Int("expected", SchemaVersion))
		return nil, false, nil
	}
	return &env, true, nil
}

// Save overwrites the snapshot key. No expiry: the slot is permanent.
func (r *RedisSnapshotter) Save(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, data, 0).Err()
}

// Close closes the client.
func (r *RedisSnapshotter) Close() {
	if r != nil && r.client != nil {
		_ = r.client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *RedisSnapshotter) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis client not configured")
	}
	return r.client.Ping(ctx).Err()
}
