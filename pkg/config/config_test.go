package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/codeGROOVE-dev/peoplesearch/pkg/completion"
	"github.com/codeGROOVE-dev/peoplesearch/pkg/httpcache"
)

// isolate keeps the developer's real config and credentials out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"GOOGLE_API_KEY", "GOOGLE_CSE_ID", "SERPAPI_KEY", "HUNTER_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(name, "")
		os.Unsetenv(name) //nolint:errcheck // restored by t.Setenv
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != ":8080" || cfg.Server.Mode != "release" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if diff := cmp.Diff([]string{"*"}, cfg.Server.CORSOrigins); diff != "" {
		t.Errorf("cors origins (-want +got):\n%s", diff)
	}
	if cfg.Upstream.Attempts != 1 || cfg.Upstream.Timeout != 0 {
		t.Errorf("upstream = %+v, want one attempt and no timeout", cfg.Upstream)
	}
	if cfg.Cache.Enabled {
		t.Error("cache enabled by default")
	}
	if cfg.OpenAI.Model != completion.DefaultModel {
		t.Errorf("openai.model = %q", cfg.OpenAI.Model)
	}
	if cfg.Google.APIKey != "" || cfg.OpenAI.APIKey != "" {
		t.Error("credentials present without environment")
	}
	if cfg.LogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
}

func TestLoadLegacyEnv(t *testing.T) {
	isolate(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("GOOGLE_CSE_ID", "cse")
	t.Setenv("SERPAPI_KEY", "s-key")
	t.Setenv("HUNTER_API_KEY", " h-key ")
	t.Setenv("OPENAI_API_KEY", "dummy-key-for-build")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := []string{cfg.Google.APIKey, cfg.Google.EngineID, cfg.SerpAPI.APIKey, cfg.Hunter.APIKey, cfg.OpenAI.APIKey}
	want := []string{"g-key", "cse", "s-key", "h-key", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("credentials (-want +got):\n%s", diff)
	}
}

func TestLoadPrefixedEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PEOPLESEARCH_UPSTREAM_ATTEMPTS", "3")
	t.Setenv("PEOPLESEARCH_UPSTREAM_TIMEOUT", "2s")
	t.Setenv("PEOPLESEARCH_GOOGLE_API_KEY", "wins")
	t.Setenv("GOOGLE_API_KEY", "loses")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Upstream.Attempts != 3 || cfg.Upstream.Timeout != 2*time.Second {
		t.Errorf("upstream = %+v", cfg.Upstream)
	}
	if cfg.Google.APIKey != "wins" {
		t.Errorf("google.api_key = %q, want prefixed value", cfg.Google.APIKey)
	}
	if diff := cmp.Diff(httpcache.Policy{Attempts: 3, Delay: 500 * time.Millisecond}, cfg.Policy()); diff != "" {
		t.Errorf("Policy (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	yaml := `
server:
  addr: "127.0.0.1:9090"
  cors_origins: ["https://app.example.com"]
cache:
  enabled: true
  ttl: 1h
log:
  level: DEBUG
  format: json
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Server.Addr != "127.0.0.1:9090" || !cfg.Cache.Enabled || cfg.Cache.TTL != time.Hour {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"https://app.example.com"}, cfg.Server.CORSOrigins); diff != "" {
		t.Errorf("cors origins (-want +got):\n%s", diff)
	}
	if cfg.LogLevel() != slog.LevelDebug || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() accepted a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Mode: "release"},
			Upstream: UpstreamConfig{Attempts: 1},
			Log:      LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"zero attempts allowed", func(c *Config) { c.Upstream.Attempts = 0 }, true},
		{"negative attempts", func(c *Config) { c.Upstream.Attempts = -1 }, false},
		{"negative timeout", func(c *Config) { c.Upstream.Timeout = -time.Second }, false},
		{"negative retry delay", func(c *Config) { c.Upstream.RetryDelay = -time.Second }, false},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, false},
		{"cache without path", func(c *Config) { c.Cache = CacheConfig{Enabled: true, TTL: time.Hour} }, false},
		{"cache without ttl", func(c *Config) { c.Cache = CacheConfig{Enabled: true, Path: "/tmp/x"} }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}
}
