package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// KeyError is the key for errors in the log.
	KeyError = "err"

	// KeyDal is the key for the data access layer in the log.
	KeyDal = "dal"

	// KeyUserID is the key for a discord user ID.
	KeyUserID = "user_id"

	// KeyTicketID is the key for a verification ticket ID.
	KeyTicketID = "ticket_id"

	// KeyChannelID is the key for a discord channel ID.
	KeyChannelID = "channel_id"

	// KeyGuildID is the key for a discord guild ID.
	KeyGuildID = "guild_id"

	// KeyAction is the key for the routed interaction action.
	KeyAction = "action"
)

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// Name is the name of the application emitting the logs.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// appName is the name of the application.
	appName Name

	// level is the textual log level, e.g. "debug".
	level string
}

// NewConfig creates a new logger configuration for the given application.
func NewConfig(appName Name) *Config {
	level := os.Getenv(EnvLogLevel)
	if level == "" {
		level = slog.LevelInfo.String()
	}

	return &Config{
		appName: appName,
		level:   level,
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.level))); err != nil {
		return nil, fmt.Errorf("error parsing log level %q: %w", c.level, err)
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})

	l := slog.New(h).With(slog.String("app", string(c.appName)))
	slog.SetDefault(l)
	return l, nil
}
