package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()

	content := `
server:
  host: "127.0.0.1"
  port: 8080
  max_connections: 5000
  wire_format: json

redis:
  enabled: true
  addr: "redis:6379"
  password: "secret"
  db: 1

game:
  room_timeout: 15
  room_cleanup_delay: 60
  shutdown_timeout: 60
  shutdown_check_interval: 30
  reconnect_timeout: 90

security:
  allowed_origins:
    - "http://localhost:3000"
    - "https://example.com"
  rate_limit:
    max_per_second: 20
    max_per_minute: 120
    ban_duration: 120
  message_limit:
    max_per_second: 50
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5000, cfg.Server.MaxConnections)
	assert.Equal(t, "json", cfg.Server.WireFormat)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 1, cfg.Redis.DB)
	assert.Equal(t, 15, cfg.Game.RoomTimeout)
	assert.Equal(t, 90, cfg.Game.ReconnectTimeout)
	assert.Len(t, cfg.Security.AllowedOrigins, 2)
	assert.Equal(t, 50, cfg.Security.MessageLimit.MaxPerSecond)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, "invalid: yaml: :::"))
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultMaxConnections, cfg.Server.MaxConnections)
	assert.Equal(t, defaultWireFormat, cfg.Server.WireFormat)
	assert.Equal(t, defaultRedisAddr, cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, defaultRoomTimeout, cfg.Game.RoomTimeout)
	assert.Equal(t, defaultReconnectTimeout, cfg.Game.ReconnectTimeout)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, defaultHost, cfg.Server.Host)
	assert.Equal(t, defaultPort, cfg.Server.Port)
	assert.Equal(t, defaultRoomCleanupDelay, cfg.Game.RoomCleanupDelay)
	assert.Equal(t, defaultMessageMaxPerSecond, cfg.Security.MessageLimit.MaxPerSecond)
}

func TestGameConfig_DurationMethods(t *testing.T) {
	t.Parallel()

	cfg := &GameConfig{
		RoomTimeout:           10,
		RoomCleanupDelay:      20,
		ShutdownTimeout:       60,
		ShutdownCheckInterval: 5,
		ReconnectTimeout:      45,
	}

	assert.Equal(t, 10*time.Minute, cfg.RoomTimeoutDuration())
	assert.Equal(t, 20*time.Second, cfg.RoomCleanupDelayDuration())
	assert.Equal(t, 60*time.Minute, cfg.ShutdownTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.ShutdownCheckIntervalDuration())
	assert.Equal(t, 45*time.Second, cfg.ReconnectTimeoutDuration())
}

func TestRateLimitConfig_BanDurationTime(t *testing.T) {
	t.Parallel()

	cfg := &RateLimitConfig{BanDuration: 120}
	assert.Equal(t, 120*time.Second, cfg.BanDurationTime())
}

func TestLoadFromEnv(t *testing.T) {
	// Not parallel because it modifies environment variables
	t.Setenv("SERVER_HOST", "env-host")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("REDIS_ADDR", "env-redis:6380")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("GAME_RECONNECT_TIMEOUT", "120")
	t.Setenv("SECURITY_ALLOWED_ORIGINS", "http://a.com, http://b.com")

	cfg, err := Load(writeConfig(t, `{}`))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "env-host", cfg.Server.Host)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "env-redis:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 120, cfg.Game.ReconnectTimeout)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.Security.AllowedOrigins)
}
