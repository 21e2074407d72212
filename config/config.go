// Package config loads the antmaster configuration from defaults, a TOML
// file, a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/antmaster"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Backend providers.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderClaude    = "claude"
	ProviderOllama    = "ollama"
	ProviderNone      = "none"
)

// Providers lists every accepted backend provider name.
var Providers = []string{
	ProviderGemini,
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderClaude,
	ProviderOllama,
	ProviderNone,
}

// EnvPrefix prefixes every antmaster environment variable.
const EnvPrefix = "ANTMASTER_"

// ServerConfig configures the HTTP and websocket surface.
type ServerConfig struct {
	Addr                  string `toml:"addr"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	ReadLimitBytes        int64  `toml:"read_limit_bytes"`
}

// RequestTimeout returns the per-request deadline for outbound calls.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DatabaseConfig configures the catalog store.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// BackendConfig configures the knowledge backend.
type BackendConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	MaxTokens         int     `toml:"max_tokens"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// SlogLevel maps Level to a slog.Level. Unknown levels map to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config is the complete antmaster configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Backend  BackendConfig  `toml:"backend"`
	Log      LogConfig      `toml:"log"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:                  ":8080",
			RequestTimeoutSeconds: 30,
			ReadLimitBytes:        1 << 20,
		},
		Database: DatabaseConfig{Path: "antmaster.db"},
		Backend: BackendConfig{
			Provider:  ProviderGemini,
			MaxTokens: 1000,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load returns Default overlaid with the TOML file at path. A missing file
// is not an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && optional {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, antmaster.Errorf(antmaster.EINVALID, "parse config file %q: %v", path, err)
	}
	return cfg, nil
}

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnvFile reads a .env file and returns a LookupFunc that consults the
// process environment first and the file second. A missing file yields a
// plain os.LookupEnv.
func LoadEnvFile(path string) (LookupFunc, error) {
	if path == "" {
		return os.LookupEnv, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return os.LookupEnv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %q: %w", path, err)
	}
	return Chain(os.LookupEnv, MapLookup(values)), nil
}

// MapLookup returns a LookupFunc backed by a map.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

// Chain returns a LookupFunc that tries each lookup in order.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// providerKeys maps providers to the conventional API key variable.
var providerKeys = map[string]string{
	ProviderGemini:    "GEMINI_API_KEY",
	ProviderOpenAI:    "OPENAI_API_KEY",
	ProviderAnthropic: "ANTHROPIC_API_KEY",
	ProviderClaude:    "ANTHROPIC_API_KEY",
}

// ApplyEnv overrides c with ANTMASTER_* variables and, when no API key is
// set, with the provider's conventional key variable.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("ADDR", &c.Server.Addr)
	str("DB", &c.Database.Path)
	str("PROVIDER", &c.Backend.Provider)
	str("MODEL", &c.Backend.Model)
	str("API_KEY", &c.Backend.APIKey)
	str("BASE_URL", &c.Backend.BaseURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return antmaster.Errorf(antmaster.EINVALID, "%sREQUEST_TIMEOUT: %q is not a number of seconds", EnvPrefix, v)
		}
		c.Server.RequestTimeoutSeconds = n
	}
	if v, ok := lookup(EnvPrefix + "REQUESTS_PER_SECOND"); ok && v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return antmaster.Errorf(antmaster.EINVALID, "%sREQUESTS_PER_SECOND: %q is not a number", EnvPrefix, v)
		}
		c.Backend.RequestsPerSecond = n
	}

	if c.Backend.APIKey == "" {
		if name, ok := providerKeys[strings.ToLower(c.Backend.Provider)]; ok {
			if v, ok := lookup(name); ok {
				c.Backend.APIKey = v
			}
		}
	}
	return nil
}

// Validate reports the first invalid setting as an EINVALID error.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return antmaster.Errorf(antmaster.EINVALID, "server address required")
	}
	if c.Server.RequestTimeoutSeconds <= 0 {
		return antmaster.Errorf(antmaster.EINVALID, "request timeout must be positive")
	}
	if c.Server.ReadLimitBytes <= 0 {
		return antmaster.Errorf(antmaster.EINVALID, "read limit must be positive")
	}
	if c.Database.Path == "" {
		return antmaster.Errorf(antmaster.EINVALID, "database path required")
	}
	if !slices.Contains(Providers, strings.ToLower(c.Backend.Provider)) {
		return antmaster.Errorf(antmaster.EINVALID, "unknown backend provider %q (want one of %s)",
			c.Backend.Provider, strings.Join(Providers, ", "))
	}
	if c.Backend.RequestsPerSecond < 0 {
		return antmaster.Errorf(antmaster.EINVALID, "requests per second must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return antmaster.Errorf(antmaster.EINVALID, "unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return antmaster.Errorf(antmaster.EINVALID, "unknown log format %q", c.Log.Format)
	}
	return nil
}
