package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"-"`

	// Auth; empty disables bearer checks
	APIKey string `yaml:"-"`

	// Pathstore publishing; empty URL disables it
	PathstoreURL     string `yaml:"pathstore_url"`
	PathstoreAPIKey  string `yaml:"-"`
	PathstoreProject string `yaml:"project"`

	// Worker pool
	WorkerCount          int `yaml:"-"`
	MaxQueueSize         int `yaml:"-"`
	MaxConcurrentParse   int `yaml:"workers"`
	MaxConcurrentPublish int `yaml:"-"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"-"`

	// Job state and stats
	JobTTL      time.Duration `yaml:"-"`
	StatsWindow time.Duration `yaml:"-"`

	// Source collection
	Exclude    []string `yaml:"exclude"`
	Extensions []string `yaml:"extensions"`

	// Rendering
	Title                string `yaml:"title"`
	MarkdownDescriptions bool   `yaml:"markdown"`
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PYOUTLINE_API_KEY"),

		PathstoreURL:     os.Getenv("PATHSTORE_URL"),
		PathstoreAPIKey:  os.Getenv("PATHSTORE_API_KEY"),
		PathstoreProject: envOr("PATHSTORE_PROJECT", "default"),

		WorkerCount:          envInt("WORKER_COUNT", 4),
		MaxQueueSize:         envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentParse:   envInt("MAX_CONCURRENT_PARSE", 8),
		MaxConcurrentPublish: envInt("MAX_CONCURRENT_PUBLISH", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL:      envDuration("JOB_TTL", 1*time.Hour),
		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		Exclude:    envList("EXCLUDE_DIRS"),
		Extensions: envList("EXTENSIONS"),

		Title:                envOr("INDEX_TITLE", "Code Index"),
		MarkdownDescriptions: envBool("MARKDOWN_DESCRIPTIONS", false),
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.WorkerCount <= 0 {
		c.WorkerCount = 4
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 100
	}
	if c.MaxConcurrentParse <= 0 {
		c.MaxConcurrentParse = 8
	}
	if c.MaxConcurrentPublish <= 0 {
		c.MaxConcurrentPublish = 10
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 10485760
	}
	if c.JobTTL <= 0 {
		c.JobTTL = 1 * time.Hour
	}
	if c.StatsWindow <= 0 {
		c.StatsWindow = 1 * time.Hour
	}
	if c.Title == "" {
		c.Title = "Code Index"
	}
	if c.PathstoreProject == "" {
		c.PathstoreProject = "default"
	}
}

// LoadFile overlays the YAML file at path on top of cfg. Keys missing from the file keep
// their current values.
func LoadFile(path string, cfg Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// PublishEnabled reports whether outlines are pushed to pathstore.
func (c Config) PublishEnabled() bool {
	return c.PathstoreURL != ""
}

func (c Config) Validate() error {
	if c.PublishEnabled() && c.PathstoreAPIKey == "" {
		return fmt.Errorf("PATHSTORE_API_KEY is required when PATHSTORE_URL is set")
	}
	if c.PublishEnabled() && strings.Contains(c.PathstoreProject, "/") {
		return fmt.Errorf("PATHSTORE_PROJECT must not contain '/'")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with '.'", ext)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
