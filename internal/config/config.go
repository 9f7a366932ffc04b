package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultListenAddr       = ":8130"
	DefaultDBPath           = "streamsider.db"
	DefaultPollInterval     = 180 * time.Second
	DefaultCacheTTL         = 10 * time.Minute
	DefaultFullRefreshEvery = 3
	DefaultMaxStreamers     = 10
	DefaultRequestTimeout   = 3 * time.Second
	DefaultKickBaseURL      = "https://kick.com"
	DefaultTheme            = "kick"
)

// DefaultUserAgent is the desktop browser identity sent on every Kick request.
// Kick's public endpoints return an HTML challenge page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config is the top-level configuration for the streamsider daemon.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Poll    PollConfig    `yaml:"poll"`
	Kick    KickConfig    `yaml:"kick"`
}

// ServerConfig holds the front-end facing HTTP/WebSocket settings.
type ServerConfig struct {
	// ListenAddr is the address the HTTP API and WebSocket hub listen on.
	ListenAddr string `yaml:"listen_addr"`
}

// StorageConfig configures the durable key-value backend.
type StorageConfig struct {
	// Path is the filesystem path for the SQLite database file.
	Path string `yaml:"path"`
}

// PollConfig holds the refresh-cycle settings.
type PollConfig struct {
	// Interval controls how often a refresh cycle runs.
	Interval time.Duration `yaml:"interval"`

	// FullRefreshEvery makes every Nth cycle bypass the cache entirely.
	FullRefreshEvery int `yaml:"full_refresh_every"`

	// CacheTTL is how long a fetched streamer record stays fresh.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// MaxStreamers is the tracked-list capacity.
	MaxStreamers int `yaml:"max_streamers"`
}

// KickConfig holds upstream API settings.
type KickConfig struct {
	// BaseURL is the Kick site root. Endpoint generations are derived from it.
	BaseURL string `yaml:"base_url"`

	// RequestTimeout bounds each individual endpoint candidate attempt.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// UserAgent overrides the browser identity sent upstream.
	UserAgent string `yaml:"user_agent"`
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no config file exists.
func Default() *Config {
	return defaults()
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server:  ServerConfig{ListenAddr: DefaultListenAddr},
		Storage: StorageConfig{Path: DefaultDBPath},
		Poll: PollConfig{
			Interval:         DefaultPollInterval,
			FullRefreshEvery: DefaultFullRefreshEvery,
			CacheTTL:         DefaultCacheTTL,
			MaxStreamers:     DefaultMaxStreamers,
		},
		Kick: KickConfig{
			BaseURL:        DefaultKickBaseURL,
			RequestTimeout: DefaultRequestTimeout,
			UserAgent:      DefaultUserAgent,
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if cfg.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if cfg.Poll.Interval <= 0 {
		return fmt.Errorf("poll.interval must be positive")
	}
	if cfg.Poll.FullRefreshEvery <= 0 {
		return fmt.Errorf("poll.full_refresh_every must be positive")
	}
	if cfg.Poll.CacheTTL <= 0 {
		return fmt.Errorf("poll.cache_ttl must be positive")
	}
	if cfg.Poll.MaxStreamers <= 0 {
		return fmt.Errorf("poll.max_streamers must be positive")
	}
	if cfg.Kick.BaseURL == "" {
		return fmt.Errorf("kick.base_url is required")
	}
	if cfg.Kick.RequestTimeout <= 0 {
		return fmt.Errorf("kick.request_timeout must be positive")
	}
	return nil
}
