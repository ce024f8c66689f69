// Package cache stores serialized results under request fingerprints with a fixed time to live.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is a key/value store with per-entry expiry.
// Set overwrites any previous value (last write wins).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// Options configures NewStore. Only the fields of the selected backend are used.
type Options struct {
	Backend       Backend
	SweepInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	Logger *slog.Logger
}

// NewStore builds the store selected by opts.Backend. Background sweeping of the memory and
// postgres stores stops when ctx is cancelled.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	switch opts.Backend {
	case BackendMemory, "":
		store := NewMemoryStore(clockwork.NewRealClock())
		store.StartSweeper(ctx, opts.SweepInterval)
		return store, nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		})
		return NewRedisStore(client), nil
	case BackendPostgres:
		dtb, err := NewDatabase(ctx,
			opts.PostgresHost, opts.PostgresPort, opts.PostgresUser, opts.PostgresPassword, opts.PostgresName)
		if err != nil {
			return nil, err
		}

		store := NewPostgresStore(dtb, log)
		if err = store.EnsureSchema(ctx); err != nil {
			dtb.Close()
			return nil, err
		}
		store.StartSweeper(ctx, opts.SweepInterval)

		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", opts.Backend)
	}
}
