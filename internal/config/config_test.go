package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads values from the config file", func(t *testing.T) {
		// Given: a config file with redis and game settings
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte(`log-level: debug
http-port: "8080"
redis:
  host: redis.local
  port: "6380"
  db: 2
game:
  id: lobby
  max-retries: 3
  reset-on-draw: false
`)
		require.NoError(t, os.WriteFile(path, content, 0o600))

		// When: the config is loaded
		conf, err := Load(path)

		// Then: every value comes from the file
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "redis.local:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 2, conf.Redis.DB)
		assert.Equal(t, "lobby", conf.Game.ID)
		assert.Equal(t, 3, conf.Game.MaxRetries)
		assert.False(t, conf.Game.ResetOnDraw)
	})

	t.Run("Falls back to environment and defaults when the file is missing", func(t *testing.T) {
		// Given: no config file and a redis host in the environment
		t.Setenv("REDIS_HOST", "cache")
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the environment and the defaults are used
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "game", conf.Game.ID)
		assert.Equal(t, 5, conf.Game.MaxRetries)
		assert.True(t, conf.Game.ResetOnDraw)
	})

	t.Run("Keeps an explicit false for reset-on-draw", func(t *testing.T) {
		// Given: a file that only turns draw resets off
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("game:\n  reset-on-draw: false\n"), 0o600))

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the flag stays off and the other game values get their defaults
		require.NoError(t, err)
		assert.False(t, conf.Game.ResetOnDraw)
		assert.Equal(t, "game", conf.Game.ID)
		assert.Equal(t, 5, conf.Game.MaxRetries)
	})

	t.Run("Resets draws by default when the key is absent", func(t *testing.T) {
		// Given: a file without reset-on-draw
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("game:\n  id: lobby\n"), 0o600))

		// When: the config is loaded
		conf, err := Load(path)

		// Then: draws are reset
		require.NoError(t, err)
		assert.Equal(t, "lobby", conf.Game.ID)
		assert.True(t, conf.Game.ResetOnDraw)
	})

	t.Run("Environment can turn draw resets off", func(t *testing.T) {
		// Given: no config file and the flag disabled in the environment
		t.Setenv("GAME_RESET_ON_DRAW", "false")
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: the environment wins over the default
		require.NoError(t, err)
		assert.False(t, conf.Game.ResetOnDraw)
	})

	t.Run("MustLoad panics on a broken file", func(t *testing.T) {
		// Given: a file that is not valid yaml
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("redis: [unterminated"), 0o600))

		// Then: MustLoad panics
		assert.Panics(t, func() { MustLoad(path) })
	})
}
