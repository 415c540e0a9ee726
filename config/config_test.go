package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, GuardMemory, cfg.Booking.Guard)
	assert.Equal(t, 24*time.Hour, cfg.Booking.KeyTTL)
	assert.Equal(t, 30*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, "6379", cfg.Redis.Port)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nAPI_BASE_URL=http://api.local:3000/\nBOOKING_GUARD=Redis\nSESSION_TTL=5m\nREDIS_DB=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("API_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "http://api.local:3000", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, GuardRedis, cfg.Booking.Guard)
	assert.Equal(t, 5*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoad_UnknownGuardFallsBackToMemory(t *testing.T) {
	t.Setenv("BOOKING_GUARD", "etcd")
	cfg, err := Load(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, GuardMemory, cfg.Booking.Guard)
}

func TestAppConfig_Location(t *testing.T) {
	assert.Equal(t, "America/Sao_Paulo", AppConfig{Timezone: "America/Sao_Paulo"}.Location().String())
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Nowhere/Invalid"}.Location())
}
