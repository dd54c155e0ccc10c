package main

import (
	"testing"
	"time"

	"github.com/Jacobbrewer1/verifier/pkg/logging"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	base := map[string]string{
		EnvBotToken:                 "token",
		EnvAdminChannelID:           "200",
		EnvVerificationLogChannelID: "201",
		EnvStaffLogChannelID:        "202",
		EnvVerifiedRoleIDs:          "500, 501,,",
	}

	with := func(overrides map[string]string) func(string) string {
		env := make(map[string]string, len(base))
		for k, v := range base {
			env[k] = v
		}
		for k, v := range overrides {
			env[k] = v
		}
		return func(key string) string { return env[key] }
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := configFromEnv(l, with(nil))
		require.NoError(t, err)
		require.Equal(t, "token", cfg.BotToken)
		require.Equal(t, "3000", cfg.LivenessPort)
		require.Equal(t, "200", cfg.Verification.AdminChannelID)
		require.Equal(t, "201", cfg.Verification.VerificationLogChannelID)
		require.Equal(t, "202", cfg.Verification.StaffLogChannelID)
		require.Equal(t, []string{"500", "501"}, cfg.Verification.VerifiedRoleIDs)
		require.Zero(t, cfg.Verification.InactivityTimeout)
		require.Zero(t, cfg.Verification.SelfDestructDelay)
		require.Empty(t, cfg.MongoUri)
		require.Empty(t, cfg.RedisAddr)
	})

	t.Run("optional", func(t *testing.T) {
		cfg, err := configFromEnv(l, with(map[string]string{
			EnvLivenessPort:      "8080",
			EnvMongoUri:          "mongodb://localhost:27017",
			EnvRedisAddr:         "localhost:6379",
			EnvInactivityTimeout: "10m",
			EnvSelfDestructDelay: "30s",
		}))
		require.NoError(t, err)
		require.Equal(t, "8080", cfg.LivenessPort)
		require.Equal(t, "mongodb://localhost:27017", cfg.MongoUri)
		require.Equal(t, "localhost:6379", cfg.RedisAddr)
		require.Equal(t, 10*time.Minute, cfg.Verification.InactivityTimeout)
		require.Equal(t, 30*time.Second, cfg.Verification.SelfDestructDelay)
	})

	errTests := []struct {
		name      string
		overrides map[string]string
		want      string
	}{
		{
			name:      "missing token",
			overrides: map[string]string{EnvBotToken: ""},
			want:      EnvBotToken,
		},
		{
			name:      "missing roles",
			overrides: map[string]string{EnvVerifiedRoleIDs: " , "},
			want:      EnvVerifiedRoleIDs,
		},
		{
			name:      "missing channels",
			overrides: map[string]string{EnvAdminChannelID: "", EnvStaffLogChannelID: ""},
			want:      EnvAdminChannelID + ", " + EnvStaffLogChannelID,
		},
		{
			name:      "invalid duration",
			overrides: map[string]string{EnvInactivityTimeout: "soon"},
			want:      EnvInactivityTimeout,
		},
		{
			name:      "negative duration",
			overrides: map[string]string{EnvSelfDestructDelay: "-1m"},
			want:      EnvSelfDestructDelay,
		},
	}

	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := configFromEnv(l, with(tt.overrides))
			require.Error(t, err)
			require.Nil(t, cfg)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
