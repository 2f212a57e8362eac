// Package config holds the settings of the finnhub proxy function.
package config

import (
	"encoding/json"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Environment variables read by NewConfigFromEnv.
const (
	EnvConfig       = "MARKETPROXY_CONFIG"
	EnvKeyParameter = "FINNHUB_API_KEY_PARAMETER"
	EnvRegion       = "AWS_REGION"
	EnvLogLevel     = "LOG_LEVEL"
)

// Defaults applied to zero valued fields.
const (
	DefaultPrefix     = "/api/finnhub"
	DefaultChartURL   = "https://query1.finance.yahoo.com"
	DefaultFinnhubURL = "https://finnhub.io/api/v1"
	DefaultTimeout    = 10000
	DefaultUserAgent  = "Mozilla/5.0"
	DefaultKeyEnv     = "FINNHUB_API_KEY"
	DefaultLogLevel   = "info"
)

// Config describes where the proxy is mounted, which upstreams it talks to and
// where the finnhub api key comes from.
//
// Timeout (milliseconds) bounds every outbound call on top of the invocation
// deadline.
type Config struct {
	Prefix       string `json:"prefix"`
	ChartURL     string `json:"chart-url"`
	FinnhubURL   string `json:"finnhub-url"`
	Timeout      int64  `json:"timeout"`
	UserAgent    string `json:"user-agent"`
	KeyEnv       string `json:"key-env"`
	KeyParameter string `json:"key-parameter"`
	Region       string `json:"region"`
	LogLevel     string `json:"log-level"`
}

// NewConfig returns a config populated with the defaults.
func NewConfig() *Config {
	cfg := new(Config)
	cfg.applyDefaults()
	return cfg
}

// NewConfigFromJson returns a config parsed from s with defaults applied to
// anything left unset.
func NewConfigFromJson(s string) (*Config, error) {
	cfg := new(Config)

	if err := json.Unmarshal([]byte(s), cfg); err != nil {
		return nil, errors.Wrap(err, "failed parsing config json")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromEnv loads a .env file when one exists, reads the optional json
// config from MARKETPROXY_CONFIG and then applies the individual overrides.
func NewConfigFromEnv() (*Config, error) {
	// a missing .env is normal inside lambda
	_ = godotenv.Load()

	cfg := new(Config)
	if raw := os.Getenv(EnvConfig); raw != "" {
		if err := json.Unmarshal([]byte(raw), cfg); err != nil {
			return nil, errors.Wrapf(err, "failed parsing %s", EnvConfig)
		}
	}

	if v := os.Getenv(EnvKeyParameter); v != "" {
		cfg.KeyParameter = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if cfg.Region == "" {
		cfg.Region = os.Getenv(EnvRegion)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	if cfg.ChartURL == "" {
		cfg.ChartURL = DefaultChartURL
	}

	if cfg.FinnhubURL == "" {
		cfg.FinnhubURL = DefaultFinnhubURL
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.KeyEnv == "" {
		cfg.KeyEnv = DefaultKeyEnv
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
}

// Validate reports the first invalid field.
func (cfg *Config) Validate() error {
	if !strings.HasPrefix(cfg.Prefix, "/") || strings.HasSuffix(cfg.Prefix, "/") {
		return errors.Errorf("prefix %q must start with '/' and must not end with '/'", cfg.Prefix)
	}

	if err := validateURL("chart-url", cfg.ChartURL); err != nil {
		return err
	}

	if err := validateURL("finnhub-url", cfg.FinnhubURL); err != nil {
		return err
	}

	if cfg.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %d", cfg.Timeout)
	}

	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Wrapf(err, "invalid log-level %q", cfg.LogLevel)
	}

	return nil
}

func validateURL(field string, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "invalid %s", field)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("%s %q must be an absolute http(s) url", field, raw)
	}

	return nil
}

// TimeoutDuration returns Timeout as a time.Duration.
func (cfg *Config) TimeoutDuration() time.Duration {
	return time.Duration(cfg.Timeout) * time.Millisecond
}

// Level returns the parsed log level, falling back to info.
func (cfg *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}

	return level
}
