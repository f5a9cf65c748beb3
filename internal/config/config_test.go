package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/campus-visitor-scheduling/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "0 0 * * *", cfg.Sweep.Schedule)
	assert.True(t, cfg.Sweep.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "Asia/Colombo", cfg.Location().String())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "PRODUCTION")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("ALLOWED_ORIGINS", "https://vms.uom.lk,https://admin.uom.lk")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvProduction, cfg.App.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, time.UTC.String(), cfg.Location().String())
	assert.Equal(t, []string{"https://vms.uom.lk", "https://admin.uom.lk"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.Database.DSN(), "port=6543")
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("DB_PORT", "five")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadAcceptsStagingAndRejectsUnknownEnv(t *testing.T) {
	t.Setenv("APP_ENV", "Staging")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.EnvStaging, cfg.App.Env)
	assert.False(t, cfg.IsDevelopment())

	t.Setenv("APP_ENV", "qa")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoadHostCacheTTL(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Cache.HostDirectoryTTL)

	t.Setenv("CACHE_HOST_DIRECTORY_TTL", "30s")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Cache.HostDirectoryTTL)
}
