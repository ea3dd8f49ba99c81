package dataaccess

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess/connection"
	"github.com/redis/go-redis/v9"
)

const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config selects and configures the store backend.
type Config struct {
	Backend string

	MongoURI string

	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open connects the configured store backend. The returned cleanup closes it.
func Open(ctx context.Context, cfg *Config, l *slog.Logger) (Store, func(), error) {
	var (
		store Store
		err   error
	)

	switch cfg.Backend {
	case BackendMongo, "":
		mongoConn := &connection.MongoDB{ConnectionString: cfg.MongoURI}
		client, cErr := mongoConn.Connect(ctx)
		if cErr != nil {
			return nil, nil, cErr
		}
		store, err = NewMongoStore(ctx, l, client)
	case BackendSQLite:
		store, err = NewSQLiteStore(cfg.SQLitePath)
	case BackendRedis:
		store = NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}))
		err = store.Ping(ctx)
	case BackendMemory:
		l.Warn("Using the in-memory store, records will not survive a restart")
		store = NewMemoryStore()
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error opening %s store: %w", cfg.Backend, err)
	}

	l.Info("Connected to store", slog.String("backend", store.Backend()))

	cleanup := func() {
		if err := store.Close(context.Background()); err != nil {
			l.Error("Error closing store", slog.String("error", err.Error()))
		}
	}
	return store, cleanup, nil
}
