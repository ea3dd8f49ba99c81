package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Jacobbrewer1/ticketwolf/pkg/dataaccess"
	"github.com/joho/godotenv"
)

// Parse reads the configuration from the environment. A .env file in the working directory is
// loaded first when present; variables already set win.
func Parse(l *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		BotToken:       os.Getenv(EnvBotToken),
		ApplicationId:  os.Getenv(EnvApplicationId),
		StoreBackend:   strings.ToLower(os.Getenv(EnvStoreBackend)),
		MongoUri:       os.Getenv(EnvMongoUri),
		SQLitePath:     os.Getenv(EnvSQLitePath),
		RedisAddr:      os.Getenv(EnvRedisAddr),
		RedisPassword:  os.Getenv(EnvRedisPassword),
		MonitoringPort: os.Getenv(EnvMonitoringPort),
		DefaultPrefix:  os.Getenv(EnvDefaultPrefix),
	}

	if cfg.MonitoringPort == "" {
		// Default to 8080 if not provided.
		cfg.MonitoringPort = defaultMonitoringPort
		l.Info("No monitoring port provided in environment, defaulting to "+defaultMonitoringPort,
			slog.String("key", EnvMonitoringPort))
	}
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = dataaccess.BackendMongo
	}
	if cfg.DefaultPrefix == "" {
		cfg.DefaultPrefix = defaultPrefix
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = defaultSQLitePath
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = defaultRedisAddr
	}

	var err error
	if cfg.RedisDB, err = intEnv(EnvRedisDB, 0); err != nil {
		return nil, err
	}
	if cfg.ChannelOpInterval, err = durationEnv(EnvChannelOpInterval, defaultChannelOpInterval); err != nil {
		return nil, err
	}
	if cfg.ChannelOpTimeout, err = durationEnv(EnvChannelOpTimeout, defaultChannelOpTimeout); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// All required environment variables have been provided.
	l.Debug("All required environment variables have been provided",
		slog.String("store", cfg.StoreBackend))
	return cfg, nil
}

func (c *Config) validate() error {
	missing := make([]string, 0)
	if c.BotToken == "" {
		missing = append(missing, EnvBotToken)
	}
	if c.ApplicationId == "" {
		missing = append(missing, EnvApplicationId)
	}
	switch c.StoreBackend {
	case dataaccess.BackendMongo:
		if c.MongoUri == "" {
			missing = append(missing, EnvMongoUri)
		}
	case dataaccess.BackendSQLite, dataaccess.BackendRedis, dataaccess.BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q in %s", c.StoreBackend, EnvStoreBackend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Store returns the store configuration.
func (c *Config) Store() *dataaccess.Config {
	return &dataaccess.Config{
		Backend:       c.StoreBackend,
		MongoURI:      c.MongoUri,
		SQLitePath:    c.SQLitePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
	}
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return i, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
