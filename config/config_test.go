package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://localhost:8081/api", cfg.APIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.APITimeout)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 30*time.Minute, cfg.ViewTTL)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("API_BASE_URL", "https://api.salon.test/v1")
	t.Setenv("API_TIMEOUT", "15s")
	t.Setenv("APP_TIMEZONE", "Africa/Abidjan")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "https://api.salon.test/v1", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "Africa/Abidjan", cfg.Location().String())
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PAGE_SIZE=10\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PAGE_SIZE") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			APIBaseURL: "http://localhost:8081/api",
			LogLevel:   "info",
			LogFormat:  "text",
			Timezone:   "UTC",
			PageSize:   5,
			ViewTTL:    time.Minute,
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"page size":  func(c *Config) { c.PageSize = 0 },
		"timeout":    func(c *Config) { c.APITimeout = -time.Second },
		"ttl":        func(c *Config) { c.ViewTTL = 0 },
		"relative":   func(c *Config) { c.APIBaseURL = "/api" },
		"log level":  func(c *Config) { c.LogLevel = "loud" },
		"log format": func(c *Config) { c.LogFormat = "xml" },
		"time zone":  func(c *Config) { c.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		c := valid()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it switches the working
// directory for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
