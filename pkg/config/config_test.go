package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://www.instagram.com", cfg.Source.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Source.RequestTimeout)
	assert.Equal(t, 5, cfg.RateLimit.DelaySeconds)
	assert.Equal(t, 3, cfg.RateLimit.MaxRetries)
	assert.Equal(t, 100, cfg.Scrape.MaxPosts)
	assert.Equal(t, DefaultTargets, cfg.Scrape.Targets)
	assert.Len(t, cfg.Scrape.Targets, 12)
	assert.Equal(t, "data", cfg.Storage.DataDirectory)
	assert.Equal(t, "public", cfg.Storage.PostgresSchema)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IGINGEST_BASE_URL", "https://mirror.example.com")
	t.Setenv("IGINGEST_DELAY_SECONDS", "10")
	t.Setenv("IGINGEST_MAX_POSTS", "25")
	t.Setenv("IGINGEST_TARGETS", "nasa, natgeo ,nike")
	t.Setenv("IGINGEST_DATA_DIR", "/tmp/ig-out")
	t.Setenv("IGINGEST_POSTGRES_DSN", "postgres://localhost/ig")
	t.Setenv("IGINGEST_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.LoadFromEnv()

	assert.Equal(t, "https://mirror.example.com", cfg.Source.BaseURL)
	assert.Equal(t, 10, cfg.RateLimit.DelaySeconds)
	assert.Equal(t, 25, cfg.Scrape.MaxPosts)
	assert.Equal(t, []string{"nasa", "natgeo", "nike"}, cfg.Scrape.Targets)
	assert.Equal(t, "/tmp/ig-out", cfg.Storage.DataDirectory)
	assert.Equal(t, "postgres://localhost/ig", cfg.Storage.PostgresDSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoadFromEnv()
	assert.Equal(t, 5, cfg.RateLimit.DelaySeconds)
	assert.Equal(t, "data", cfg.Storage.DataDirectory)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
source:
  base_url: https://mirror.example.com
rate_limit:
  delay_seconds: 2
scrape:
  max_posts: 7
  targets:
    - nasa
    - natgeo
storage:
  data_directory: /srv/ig
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://mirror.example.com", cfg.Source.BaseURL)
	assert.Equal(t, 2, cfg.RateLimit.DelaySeconds)
	assert.Equal(t, 7, cfg.Scrape.MaxPosts)
	assert.Equal(t, []string{"nasa", "natgeo"}, cfg.Scrape.Targets)
	assert.Equal(t, "/srv/ig", cfg.Storage.DataDirectory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// Fields absent from the file keep their defaults
	assert.Equal(t, 3, cfg.RateLimit.MaxRetries)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scrape: [not a map"), 0644))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":       "/tmp/out",
		"max-posts":    50,
		"delay":        1,
		"postgres-dsn": "postgres://localhost/ig",
		"log-level":    "debug",
	})

	assert.Equal(t, "/tmp/out", cfg.Storage.DataDirectory)
	assert.Equal(t, 50, cfg.Scrape.MaxPosts)
	assert.Equal(t, 1, cfg.RateLimit.DelaySeconds)
	assert.Equal(t, "postgres://localhost/ig", cfg.Storage.PostgresDSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMergeCommandLineFlagsZeroMaxPosts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{"max-posts": 0})
	assert.Equal(t, 0, cfg.Scrape.MaxPosts, "zero means unbounded and must be merged")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.Source.BaseURL = "" }},
		{"zero timeout", func(c *Config) { c.Source.RequestTimeout = 0 }},
		{"negative delay", func(c *Config) { c.RateLimit.DelaySeconds = -1 }},
		{"negative retries", func(c *Config) { c.RateLimit.MaxRetries = -1 }},
		{"negative max posts", func(c *Config) { c.Scrape.MaxPosts = -1 }},
		{"empty data dir", func(c *Config) { c.Storage.DataDirectory = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDelay(t *testing.T) {
	rl := RateLimitConfig{DelaySeconds: 5}
	assert.Equal(t, 5*time.Second, rl.Delay())

	rl.DelaySeconds = 0
	assert.Equal(t, time.Duration(0), rl.Delay())
}
