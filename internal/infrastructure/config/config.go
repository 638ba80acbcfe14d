package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the xComfort SHC client.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Gateway  GatewayConfig  `yaml:"gateway"`
	HTTP     HTTPConfig     `yaml:"http"`
	Setup    SetupConfig    `yaml:"setup"`
	Cache    CacheConfig    `yaml:"cache"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GatewayConfig identifies the Smart Home Controller and the remote
// account used to reach it.
type GatewayConfig struct {
	BaseURL   string `yaml:"base_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	RemoteKey string `yaml:"remote_key"`
}

// HTTPConfig contains transport settings for talking to the gateway.
type HTTPConfig struct {
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`

	// InsecureSkipVerify disables TLS certificate verification.
	// Gateways on local networks commonly present self-signed
	// certificates; leave false when the SHC has a proper cert.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// SetupConfig controls how the device and scene directory is populated
// at start-up.
type SetupConfig struct {
	// Auto runs gateway discovery after login.
	Auto bool `yaml:"auto"`

	// ImportPath points at a YAML setup export. When set it wins over
	// Auto and discovery never runs.
	ImportPath string `yaml:"import_path"`
}

// CacheConfig contains settings for the on-disk directory cache.
// An empty path disables the cache.
type CacheConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings for telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: XCOMFORT_SECTION_KEY
// For example: XCOMFORT_GATEWAY_BASE_URL, XCOMFORT_GATEWAY_PASSWORD
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	ApplyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
//
// Callers that have no config file (flag- or env-driven tools) can start
// here, call ApplyEnv, overlay their own values, and then Validate.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout: 15,
		},
		Setup: SetupConfig{
			Auto: false,
		},
		Cache: CacheConfig{
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     20,
			FlushInterval: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// ApplyEnv applies environment variable overrides to the configuration.
// Environment variables follow the pattern: XCOMFORT_SECTION_KEY
func ApplyEnv(cfg *Config) {
	// Gateway
	if v := os.Getenv("XCOMFORT_GATEWAY_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("XCOMFORT_GATEWAY_USERNAME"); v != "" {
		cfg.Gateway.Username = v
	}
	if v := os.Getenv("XCOMFORT_GATEWAY_PASSWORD"); v != "" {
		cfg.Gateway.Password = v
	}
	if v := os.Getenv("XCOMFORT_GATEWAY_REMOTE_KEY"); v != "" {
		cfg.Gateway.RemoteKey = v
	}

	// HTTP
	if v := os.Getenv("XCOMFORT_HTTP_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Timeout = n
		}
	}

	// Cache
	if v := os.Getenv("XCOMFORT_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}

	// InfluxDB
	if v := os.Getenv("XCOMFORT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("XCOMFORT_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Gateway validation
	if c.Gateway.BaseURL == "" {
		errs = append(errs, "gateway.base_url is required")
	} else if !strings.HasPrefix(c.Gateway.BaseURL, "http://") && !strings.HasPrefix(c.Gateway.BaseURL, "https://") {
		errs = append(errs, "gateway.base_url must start with http:// or https://")
	}
	if c.Gateway.Username == "" {
		errs = append(errs, "gateway.username is required")
	}
	if c.Gateway.Password == "" {
		errs = append(errs, "gateway.password is required (set XCOMFORT_GATEWAY_PASSWORD environment variable)")
	}

	// HTTP validation
	if c.HTTP.Timeout < 1 {
		errs = append(errs, "http.timeout must be at least 1 second")
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled is true")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required when influxdb.enabled is true")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetHTTPTimeout returns the per-request HTTP timeout as a Duration.
func (c *Config) GetHTTPTimeout() time.Duration {
	return time.Duration(c.HTTP.Timeout) * time.Second
}

// GetFlushInterval returns the InfluxDB flush interval as a Duration.
func (c *Config) GetFlushInterval() time.Duration {
	return time.Duration(c.InfluxDB.FlushInterval) * time.Second
}
