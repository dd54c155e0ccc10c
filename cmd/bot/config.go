package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/Jacobbrewer1/verifier/pkg/verification"
	"github.com/joho/godotenv"
)

const (
	// AppName is the name of the application.
	AppName = "verifier"

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvAdminChannelID is the environment variable for the channel staff review submissions in.
	EnvAdminChannelID = `ADMIN_CHANNEL_ID`

	// EnvVerificationLogChannelID is the environment variable for the channel approvals are logged to.
	EnvVerificationLogChannelID = `VERIFICATION_LOG_CHANNEL_ID`

	// EnvStaffLogChannelID is the environment variable for the channel every staff decision is logged to.
	EnvStaffLogChannelID = `STAFF_LOG_CHANNEL_ID`

	// EnvVerifiedRoleIDs is the environment variable for the comma separated roles granted on approval.
	EnvVerifiedRoleIDs = `VERIFIED_ROLE_IDS`

	// EnvLivenessPort is the environment variable for the liveness and monitoring port.
	EnvLivenessPort = `LIVENESS_PORT`

	// EnvMongoUri is the environment variable for the MongoDB URI. Decision history is kept when set.
	EnvMongoUri = `MONGO_URI`

	// EnvRedisAddr is the environment variable for the Redis address. The registries are shared through Redis when
	// set.
	EnvRedisAddr = `REDIS_ADDR`

	// EnvInactivityTimeout is the environment variable overriding how long a ticket may stay open without a
	// submission.
	EnvInactivityTimeout = `INACTIVITY_TIMEOUT`

	// EnvSelfDestructDelay is the environment variable overriding how long a review channel survives a submission.
	EnvSelfDestructDelay = `SELF_DESTRUCT_DELAY`

	defaultLivenessPort = "3000"
)

// ErrIncompleteConfig is returned when a required environment variable is not set.
var ErrIncompleteConfig = errors.New("incomplete configuration")

// Config is the configuration of the bot process.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string

	// LivenessPort is the port for the liveness and monitoring server.
	LivenessPort string

	// MongoUri is the URI for the MongoDB database.
	MongoUri string

	// RedisAddr is the address of the Redis server.
	RedisAddr string

	Verification verification.Config
}

// parseConfig reads the configuration from the environment. A .env file in the working directory is loaded first if
// there is one; variables already set take precedence.
func parseConfig(l *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
		l.Debug("No .env file found, using the environment only")
	}

	return configFromEnv(l, os.Getenv)
}

func configFromEnv(l *slog.Logger, getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BotToken:     getenv(EnvBotToken),
		LivenessPort: getenv(EnvLivenessPort),
		MongoUri:     getenv(EnvMongoUri),
		RedisAddr:    getenv(EnvRedisAddr),
		Verification: verification.Config{
			AdminChannelID:           getenv(EnvAdminChannelID),
			VerificationLogChannelID: getenv(EnvVerificationLogChannelID),
			StaffLogChannelID:        getenv(EnvStaffLogChannelID),
			VerifiedRoleIDs:          splitList(getenv(EnvVerifiedRoleIDs)),
		},
	}

	required := map[string]bool{
		EnvBotToken:                 cfg.BotToken != "",
		EnvAdminChannelID:           cfg.Verification.AdminChannelID != "",
		EnvVerificationLogChannelID: cfg.Verification.VerificationLogChannelID != "",
		EnvStaffLogChannelID:        cfg.Verification.StaffLogChannelID != "",
		EnvVerifiedRoleIDs:          len(cfg.Verification.VerifiedRoleIDs) > 0,
	}

	var missing []string
	for _, key := range []string{EnvBotToken, EnvAdminChannelID, EnvVerificationLogChannelID, EnvStaffLogChannelID, EnvVerifiedRoleIDs} {
		if !required[key] {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		l.Error("Not all required environment variables have been provided",
			slog.String(logging.KeyError, ErrIncompleteConfig.Error()),
			slog.Any("missing", missing))
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteConfig, strings.Join(missing, ", "))
	}

	if cfg.LivenessPort == "" {
		cfg.LivenessPort = defaultLivenessPort
		l.Info("No liveness port provided in environment, defaulting to "+defaultLivenessPort,
			slog.String("key", EnvLivenessPort))
	}

	var err error
	if cfg.Verification.InactivityTimeout, err = parseDuration(getenv, EnvInactivityTimeout); err != nil {
		return nil, err
	}
	if cfg.Verification.SelfDestructDelay, err = parseDuration(getenv, EnvSelfDestructDelay); err != nil {
		return nil, err
	}

	l.Debug("All required environment variables have been provided")
	return cfg, nil
}

// parseDuration reads an optional duration. Zero means the default is used.
func parseDuration(getenv func(string) string, key string) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("error parsing %s: %s is not positive", key, raw)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
