package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret-key")
	t.Setenv("CRON_SECRET", "test-cron-secret")
}

func TestLoadWithOptions_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "signalkit", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, 5*time.Minute, cfg.Jobs.RunTimeout)
	assert.Equal(t, 4, cfg.Jobs.WorkspaceConcurrency)
	assert.Equal(t, 1, cfg.Jobs.DetectorLookbackDays)

	assert.Equal(t, 30, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 20, cfg.RateLimit.QueryMaxRequests)

	assert.Equal(t, "test-secret-key", cfg.Security.SecretKey)
	assert.Equal(t, "test-cron-secret", cfg.Security.CronSecret)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadWithOptions_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "signalkit_test")
	t.Setenv("JOBS_RUN_TIMEOUT_SECONDS", "120")
	t.Setenv("RATE_LIMIT_QUERY_MAX_REQUESTS", "5")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "signalkit_test", cfg.Database.DBName)
	assert.Equal(t, 2*time.Minute, cfg.Jobs.RunTimeout)
	assert.Equal(t, 5, cfg.RateLimit.QueryMaxRequests)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadWithOptions_MissingSecrets(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("CRON_SECRET", "")

	_, err := LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")

	t.Setenv("SECRET_KEY", "present")
	_, err = LoadWithOptions(LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CRON_SECRET")
}
