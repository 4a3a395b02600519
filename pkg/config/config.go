// Package config loads service settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/completion"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/httpcache"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes every environment variable except the provider keys.
const EnvPrefix = "PEOPLESEARCH"

// placeholderKey is treated as an unset OpenAI key.
const placeholderKey = "dummy-key-for-build"

// Config is the full service configuration.
type Config struct {
	Source   string         `mapstructure:"-"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	Google   GoogleConfig   `mapstructure:"google"`
	SerpAPI  ServiceConfig  `mapstructure:"serpapi"`
	Hunter   ServiceConfig  `mapstructure:"hunter"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// UpstreamConfig applies to every outbound API call.
type UpstreamConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Attempts   int           `mapstructure:"attempts"`
}

// ServiceConfig holds one provider's credentials.
type ServiceConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// GoogleConfig holds Custom Search credentials.
type GoogleConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"cse_id"`
	BaseURL  string `mapstructure:"base_url"`
}

// OpenAIConfig selects the completion model.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig controls the optional upstream response cache.
type CacheConfig struct {
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
	Enabled bool          `mapstructure:"enabled"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv maps keys to the unprefixed variable names operators already use.
var legacyEnv = map[string]string{
	"google.api_key":  "GOOGLE_API_KEY",
	"google.cse_id":   "GOOGLE_CSE_ID",
	"serpapi.api_key": "SERPAPI_KEY",
	"hunter.api_key":  "HUNTER_API_KEY",
	"openai.api_key":  "OPENAI_API_KEY",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("upstream.timeout", time.Duration(0))
	v.SetDefault("upstream.attempts", 1)
	v.SetDefault("upstream.retry_delay", 500*time.Millisecond)

	v.SetDefault("google.api_key", "")
	v.SetDefault("google.cse_id", "")
	v.SetDefault("google.base_url", "")
	v.SetDefault("serpapi.api_key", "")
	v.SetDefault("serpapi.base_url", "")
	v.SetDefault("hunter.api_key", "")
	v.SetDefault("hunter.base_url", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", completion.DefaultModel)
	v.SetDefault("openai.base_url", "")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", defaultCachePath())
	v.SetDefault("cache.ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "peoplesearch")
	}
	return filepath.Join(dir, "peoplesearch")
}

// Load reads configuration. An empty path searches ./peoplesearch.yaml and
// ~/.config/peoplesearch/peoplesearch.yaml; a missing file there is not an
// error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("peoplesearch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "peoplesearch"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Google.APIKey = strings.TrimSpace(c.Google.APIKey)
	c.Google.EngineID = strings.TrimSpace(c.Google.EngineID)
	c.SerpAPI.APIKey = strings.TrimSpace(c.SerpAPI.APIKey)
	c.Hunter.APIKey = strings.TrimSpace(c.Hunter.APIKey)
	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	if c.OpenAI.APIKey == placeholderKey {
		c.OpenAI.APIKey = ""
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Upstream.Attempts < 0:
		return fmt.Errorf("%w: upstream.attempts must not be negative, got %d", ErrInvalid, c.Upstream.Attempts)
	case c.Upstream.Timeout < 0:
		return fmt.Errorf("%w: upstream.timeout must not be negative, got %s", ErrInvalid, c.Upstream.Timeout)
	case c.Upstream.RetryDelay < 0:
		return fmt.Errorf("%w: upstream.retry_delay must not be negative, got %s", ErrInvalid, c.Upstream.RetryDelay)
	case c.Server.ShutdownTimeout < 0:
		return fmt.Errorf("%w: server.shutdown_timeout must not be negative", ErrInvalid)
	case !slices.Contains([]string{"debug", "release", "test"}, c.Server.Mode):
		return fmt.Errorf("%w: server.mode %q is not debug, release or test", ErrInvalid, c.Server.Mode)
	case c.Cache.Enabled && c.Cache.Path == "":
		return fmt.Errorf("%w: cache.path is required when the cache is enabled", ErrInvalid)
	case c.Cache.Enabled && c.Cache.TTL <= 0:
		return fmt.Errorf("%w: cache.ttl must be positive when the cache is enabled", ErrInvalid)
	case c.Log.Format != "text" && c.Log.Format != "json":
		return fmt.Errorf("%w: log.format %q is not text or json", ErrInvalid, c.Log.Format)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Policy returns the retry policy for upstream calls.
func (c *Config) Policy() httpcache.Policy {
	return httpcache.Policy{Attempts: uint(c.Upstream.Attempts), Delay: c.Upstream.RetryDelay} //nolint:gosec // validated non-negative
}

// LogLevel returns the configured slog level, or Info if unparseable.
func (c *Config) LogLevel() slog.Level {
	l, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
