package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout())
	assert.Equal(t, config.ProviderGemini, cfg.Backend.Provider)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("overlays file on defaults", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "antmaster.toml", `
[server]
addr = ":9090"

[backend]
provider = "ollama"
model = "llama3"
base_url = "http://localhost:11434"
requests_per_second = 2.5

[log]
level = "debug"
`)

		cfg, err := config.Load(path, false)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Server.Addr)
		assert.Equal(t, 30, cfg.Server.RequestTimeoutSeconds)
		assert.Equal(t, "antmaster.db", cfg.Database.Path)
		assert.Equal(t, "ollama", cfg.Backend.Provider)
		assert.Equal(t, "llama3", cfg.Backend.Model)
		assert.InDelta(t, 2.5, cfg.Backend.RequestsPerSecond, 0.001)
		assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
		assert.Equal(t, "text", cfg.Log.Format)
	})

	t.Run("missing optional file yields defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"), true)

		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("missing required file fails", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"), false)

		require.Error(t, err)
	})

	t.Run("malformed file is invalid", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "bad.toml", "[server\naddr = ")

		_, err := config.Load(path, false)

		assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(err))
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	t.Run("prefixed variables override", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		err := cfg.ApplyEnv(config.MapLookup(map[string]string{
			"ANTMASTER_ADDR":                ":7000",
			"ANTMASTER_DB":                  "/tmp/ants.db",
			"ANTMASTER_PROVIDER":            "openai",
			"ANTMASTER_REQUEST_TIMEOUT":     "5",
			"ANTMASTER_REQUESTS_PER_SECOND": "1",
			"ANTMASTER_LOG_FORMAT":          "json",
			"OPENAI_API_KEY":                "sk-test",
		}))

		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Server.Addr)
		assert.Equal(t, "/tmp/ants.db", cfg.Database.Path)
		assert.Equal(t, "openai", cfg.Backend.Provider)
		assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout())
		assert.InDelta(t, 1.0, cfg.Backend.RequestsPerSecond, 0.001)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "sk-test", cfg.Backend.APIKey)
	})

	t.Run("explicit api key wins over provider key", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		err := cfg.ApplyEnv(config.MapLookup(map[string]string{
			"ANTMASTER_API_KEY": "explicit",
			"GEMINI_API_KEY":    "provider",
		}))

		require.NoError(t, err)
		assert.Equal(t, "explicit", cfg.Backend.APIKey)
	})

	t.Run("claude uses anthropic key", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		cfg.Backend.Provider = "claude"
		err := cfg.ApplyEnv(config.MapLookup(map[string]string{"ANTHROPIC_API_KEY": "ak"}))

		require.NoError(t, err)
		assert.Equal(t, "ak", cfg.Backend.APIKey)
	})

	t.Run("bad timeout is invalid", func(t *testing.T) {
		t.Parallel()

		cfg := config.Default()
		err := cfg.ApplyEnv(config.MapLookup(map[string]string{"ANTMASTER_REQUEST_TIMEOUT": "soon"}))

		assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(err))
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	t.Run("reads file values", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, ".env", "ANTMASTER_TEST_ONLY_MODEL=gemini-2.5-pro\n")

		lookup, err := config.LoadEnvFile(path)

		require.NoError(t, err)
		v, ok := lookup("ANTMASTER_TEST_ONLY_MODEL")
		assert.True(t, ok)
		assert.Equal(t, "gemini-2.5-pro", v)
	})

	t.Run("missing file falls back to environment", func(t *testing.T) {
		t.Parallel()

		lookup, err := config.LoadEnvFile(filepath.Join(t.TempDir(), ".env"))

		require.NoError(t, err)
		_, ok := lookup("ANTMASTER_TEST_ONLY_UNSET")
		assert.False(t, ok)
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	lookup := config.Chain(
		config.MapLookup(map[string]string{"A": "first"}),
		config.MapLookup(map[string]string{"A": "second", "B": "b"}),
	)

	a, _ := lookup("A")
	b, _ := lookup("B")
	_, ok := lookup("C")

	assert.Equal(t, "first", a)
	assert.Equal(t, "b", b)
	assert.False(t, ok)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Server.Addr = "" }},
		{"zero timeout", func(c *config.Config) { c.Server.RequestTimeoutSeconds = 0 }},
		{"zero read limit", func(c *config.Config) { c.Server.ReadLimitBytes = 0 }},
		{"empty database", func(c *config.Config) { c.Database.Path = "" }},
		{"unknown provider", func(c *config.Config) { c.Backend.Provider = "watson" }},
		{"negative rate", func(c *config.Config) { c.Backend.RequestsPerSecond = -1 }},
		{"unknown level", func(c *config.Config) { c.Log.Level = "trace" }},
		{"unknown format", func(c *config.Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			assert.Equal(t, antmaster.EINVALID, antmaster.ErrorCode(cfg.Validate()))
		})
	}
}
