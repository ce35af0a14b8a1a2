package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTotalTables is the dining room capacity used when none is configured.
const DefaultTotalTables = 20

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Sync       SyncConfig       `yaml:"sync"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Events     EventsConfig     `yaml:"events"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// SyncConfig controls the live views kept by the synchronizer.
type SyncConfig struct {
	PollIntervalMillis  int           `yaml:"poll_interval_ms"`
	PollInterval        time.Duration `yaml:"-"`
	TotalTables         int           `yaml:"total_tables"`
	StaleAfterSeconds   int           `yaml:"stale_after_seconds"`
	StaleAfter          time.Duration `yaml:"-"`
	EnforceTransitions  *bool         `yaml:"enforce_transitions"`
	NotifyNewRequests   bool          `yaml:"notify_new_requests"`
	NotifyDedupeMinutes int           `yaml:"notify_dedupe_minutes"`
}

// Enforce reports whether order status transitions are validated before writing.
func (s SyncConfig) Enforce() bool {
	return s.EnforceTransitions == nil || *s.EnforceTransitions
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogQueries             bool   `yaml:"log_queries"`
}

// EventsConfig holds the RabbitMQ settings for state-change events.
type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset values. Load calls it; tests building a Config by hand may too.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Sync.PollIntervalMillis <= 0 {
		cfg.Sync.PollIntervalMillis = 1000
	}
	cfg.Sync.PollInterval = time.Duration(cfg.Sync.PollIntervalMillis) * time.Millisecond

	if cfg.Sync.TotalTables <= 0 {
		cfg.Sync.TotalTables = DefaultTotalTables
	}

	if cfg.Sync.StaleAfterSeconds <= 0 {
		cfg.Sync.StaleAfterSeconds = 120
	}
	cfg.Sync.StaleAfter = time.Duration(cfg.Sync.StaleAfterSeconds) * time.Second

	if cfg.Sync.NotifyDedupeMinutes <= 0 {
		cfg.Sync.NotifyDedupeMinutes = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Events.Exchange == "" {
		cfg.Events.Exchange = "frontdesk_events"
	}
}
