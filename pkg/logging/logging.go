package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key for errors.
	KeyError = "error"

	// KeyDal is the key for the data access layer name.
	KeyDal = "dal"

	// KeyAppName is the key for the application name.
	KeyAppName = "app"

	// KeySystem is the key for the interaction system (e.g. wizard, ticket).
	KeySystem = "system"

	// KeyAction is the key for the interaction action.
	KeyAction = "action"

	KeyGuild   = "guild_id"
	KeyChannel = "channel_id"
	KeyUser    = "user_id"
	KeyPanel   = "panel_id"
	KeyTicket  = "ticket_id"
)

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application the logger is for.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// appName is the name of the application.
	appName Name

	// level is the minimum level that is logged.
	level slog.Level
}

// NewConfig creates a new logging configuration. The level is read from LOG_LEVEL and defaults to info.
func NewConfig(appName Name) *Config {
	lvl := slog.LevelInfo
	if env := os.Getenv(EnvLogLevel); env != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(env))); err != nil {
			lvl = slog.LevelInfo
		}
	}

	return &Config{
		appName: appName,
		level:   lvl,
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(cfg *Config) (*slog.Logger, error) {
	if cfg == nil {
		return nil, fmt.Errorf("logging config is nil")
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.level,
	})

	l := slog.New(h).With(slog.String(KeyAppName, string(cfg.appName)))
	slog.SetDefault(l)
	return l, nil
}

// ErrAttr is shorthand for the error attribute.
func ErrAttr(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
