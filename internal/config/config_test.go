package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"WXCRAFT_CONFIG", "HTTP_ADDR", "LOG_LEVEL", "AVWX_BASE_URL",
		"FETCH_TIMEOUT", "REQUEST_TIMEOUT", "SHUTDOWN_TIMEOUT", "RATE_LIMIT_RPS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "wxcraft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultBaseURL, cfg.AVWXBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Zero(t, cfg.RateLimitRPS)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("WXCRAFT_CONFIG", writeConfig(t, `
server:
  addr: ":9090"
  shutdown_timeout: 5s
log:
  level: debug
upstream:
  base_url: http://localhost:8081/api/data/
  timeout: 3s
rate_limit:
  rps: 20
`))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8081/api/data", cfg.AVWXBaseURL)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 20, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("WXCRAFT_CONFIG", writeConfig(t, "server:\n  addr: \":9090\"\nrate_limit:\n  rps: 20\n  burst: 5\n"))
	t.Setenv("HTTP_ADDR", "127.0.0.1:7000")
	t.Setenv("RATE_LIMIT_RPS", "50")
	t.Setenv("FETCH_TIMEOUT", "20s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.RateLimitRPS)
	assert.Equal(t, 5, cfg.RateLimitBurst)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 21*time.Second, cfg.RequestTimeout)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad duration", map[string]string{"FETCH_TIMEOUT": "soon"}, "FETCH_TIMEOUT"},
		{"negative timeout", map[string]string{"SHUTDOWN_TIMEOUT": "-1s"}, "SHUTDOWN_TIMEOUT must be positive"},
		{"bad rps", map[string]string{"RATE_LIMIT_RPS": "many"}, "RATE_LIMIT_RPS"},
		{"negative rps", map[string]string{"RATE_LIMIT_RPS": "-3"}, "must not be negative"},
		{"relative url", map[string]string{"AVWX_BASE_URL": "aviationweather.gov"}, "absolute URL"},
		{"missing file", map[string]string{"WXCRAFT_CONFIG": "/nonexistent/wxcraft.yaml"}, "read config file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("WXCRAFT_CONFIG", writeConfig(t, "server: [unclosed"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
