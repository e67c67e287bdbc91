package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the ingestion pipeline
type Config struct {
	// Remote source settings
	Source SourceConfig `yaml:"source" json:"source"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Scrape settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output/storage settings
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SourceConfig holds remote-source specific configuration
type SourceConfig struct {
	BaseURL        string        `yaml:"base_url" json:"base_url"`
	UserAgent      string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// RateLimitConfig holds the fixed inter-item delay and page-fetch retry policy
type RateLimitConfig struct {
	// DelaySeconds is the minimum spacing between consecutive item fetches.
	DelaySeconds int `yaml:"delay_seconds" json:"delay_seconds"`
	MaxRetries   int `yaml:"max_retries" json:"max_retries"`
}

// ScrapeConfig holds per-run scrape settings
type ScrapeConfig struct {
	// MaxPosts bounds how many posts are fetched per profile. 0 means all.
	MaxPosts int `yaml:"max_posts" json:"max_posts"`
	// Targets is the default username list for batch runs.
	Targets []string `yaml:"targets" json:"targets"`
}

// StorageConfig holds output configuration. JSON and CSV files land under
// DataDirectory; the Postgres sink is enabled when a DSN is set.
type StorageConfig struct {
	DataDirectory  string `yaml:"data_directory" json:"data_directory"`
	PostgresDSN    string `yaml:"postgres_dsn" json:"postgres_dsn"`
	PostgresSchema string `yaml:"postgres_schema" json:"postgres_schema"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultTargets is the public-account list scraped when no targets are
// configured.
var DefaultTargets = []string{
	"instagram", "natgeo", "nasa", "nike", "nba", "9gag", "google",
	"apple", "cristiano", "fcbarcelona", "realmadrid", "championsleague",
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL:        "https://www.instagram.com",
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			DelaySeconds: 5,
			MaxRetries:   3,
		},
		Scrape: ScrapeConfig{
			MaxPosts: 100,
			Targets:  DefaultTargets,
		},
		Storage: StorageConfig{
			DataDirectory:  "data",
			PostgresSchema: "public",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() {
	if baseURL := os.Getenv("IGINGEST_BASE_URL"); baseURL != "" {
		c.Source.BaseURL = baseURL
	}
	if userAgent := os.Getenv("IGINGEST_USER_AGENT"); userAgent != "" {
		c.Source.UserAgent = userAgent
	}
	if delay := os.Getenv("IGINGEST_DELAY_SECONDS"); delay != "" {
		var val int
		fmt.Sscanf(delay, "%d", &val)
		if val >= 0 {
			c.RateLimit.DelaySeconds = val
		}
	}
	if maxPosts := os.Getenv("IGINGEST_MAX_POSTS"); maxPosts != "" {
		var val int
		fmt.Sscanf(maxPosts, "%d", &val)
		if val >= 0 {
			c.Scrape.MaxPosts = val
		}
	}
	if targets := os.Getenv("IGINGEST_TARGETS"); targets != "" {
		c.Scrape.Targets = splitTargets(targets)
	}
	if dataDir := os.Getenv("IGINGEST_DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
	if dsn := os.Getenv("IGINGEST_POSTGRES_DSN"); dsn != "" {
		c.Storage.PostgresDSN = dsn
	}
	if schema := os.Getenv("IGINGEST_POSTGRES_SCHEMA"); schema != "" {
		c.Storage.PostgresSchema = schema
	}
	if logLevel := os.Getenv("IGINGEST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// splitTargets parses a comma-separated username list
func splitTargets(s string) []string {
	var targets []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igingest.yaml",
		".igingest.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igingest", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".igingest.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Source.BaseURL == "" {
		errs = append(errs, errors.New("source base URL is required"))
	}
	if c.Source.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.DelaySeconds < 0 {
		errs = append(errs, errors.New("delay seconds cannot be negative"))
	}
	if c.RateLimit.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}

	if c.Scrape.MaxPosts < 0 {
		errs = append(errs, errors.New("max posts cannot be negative"))
	}

	if c.Storage.DataDirectory == "" {
		errs = append(errs, errors.New("data directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if dataDir, ok := flags["output"].(string); ok && dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
	if maxPosts, ok := flags["max-posts"].(int); ok && maxPosts >= 0 {
		c.Scrape.MaxPosts = maxPosts
	}
	if delay, ok := flags["delay"].(int); ok && delay >= 0 {
		c.RateLimit.DelaySeconds = delay
	}
	if dsn, ok := flags["postgres-dsn"].(string); ok && dsn != "" {
		c.Storage.PostgresDSN = dsn
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igingest.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	config.LoadFromEnv()

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Delay returns the configured inter-item delay as a duration
func (c *RateLimitConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}
