package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	HTTPAddr string
	LogLevel string

	AVWXBaseURL  string
	FetchTimeout time.Duration

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	RateLimitRPS   int
	RateLimitBurst int
}

type fileConfig struct {
	Server struct {
		Addr            string `yaml:"addr"`
		RequestTimeout  string `yaml:"request_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Upstream struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"upstream"`

	RateLimit struct {
		RPS   int `yaml:"rps"`
		Burst int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

const DefaultBaseURL = "https://aviationweather.gov/api/data"

// Load reads the optional YAML file named by WXCRAFT_CONFIG, applies
// environment overrides and fills in defaults.
func Load() (*Config, error) {
	var fc fileConfig
	if path := strings.TrimSpace(os.Getenv("WXCRAFT_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddr:    firstNonEmpty(os.Getenv("HTTP_ADDR"), fc.Server.Addr, ":8080"),
		LogLevel:    firstNonEmpty(os.Getenv("LOG_LEVEL"), fc.Log.Level, "info"),
		AVWXBaseURL: strings.TrimSuffix(firstNonEmpty(os.Getenv("AVWX_BASE_URL"), fc.Upstream.BaseURL, DefaultBaseURL), "/"),
	}

	var err error
	if cfg.FetchTimeout, err = durationSetting("FETCH_TIMEOUT", fc.Upstream.Timeout, 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationSetting("REQUEST_TIMEOUT", fc.Server.RequestTimeout, 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = durationSetting("SHUTDOWN_TIMEOUT", fc.Server.ShutdownTimeout, 30*time.Second); err != nil {
		return nil, err
	}

	cfg.RateLimitRPS = fc.RateLimit.RPS
	if v := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); v != "" {
		rps, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = rps
	}
	cfg.RateLimitBurst = fc.RateLimit.Burst
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 2 * cfg.RateLimitRPS
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// durationSetting resolves a duration from env, then file, then the default.
func durationSetting(env, fromFile string, defaultVal time.Duration) (time.Duration, error) {
	s := firstNonEmpty(os.Getenv(env), fromFile)
	if s == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", env, err)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// validate performs post-load validation of configuration values. The request
// timeout is raised above the fetch timeout when needed.
func validate(cfg *Config) error {
	if cfg.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.RequestTimeout <= cfg.FetchTimeout {
		cfg.RequestTimeout = cfg.FetchTimeout + time.Second
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative, got %d", cfg.RateLimitRPS)
	}
	u, err := url.Parse(cfg.AVWXBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("AVWX_BASE_URL must be an absolute URL, got %q", cfg.AVWXBaseURL)
	}
	return nil
}
