package config

import (
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`

	// Remote salon API.
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8081/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	// Empty JWTSecret forwards tokens without verifying them.
	JWTSecret string `env:"JWT_SECRET"`
	LoginURL  string `env:"LOGIN_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	Timezone    string        `env:"APP_TIMEZONE" envDefault:"Local"`
	PageSize    int           `env:"PAGE_SIZE" envDefault:"5"`
	ViewTTL     time.Duration `env:"VIEW_TTL" envDefault:"30m"`
	MetricsPath string        `env:"METRICS_PATH" envDefault:"/metrics"`

	location *time.Location
}

// LoadEnvFiles loads the dotenv files that exist and returns how many it read.
func LoadEnvFiles(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load() (*Config, error) {
	if _, err := LoadEnvFiles(".env", ".env.local"); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PageSize <= 0 {
		return errors.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.APITimeout < 0 {
		return errors.Errorf("API_TIMEOUT must not be negative, got %s", c.APITimeout)
	}
	if c.ViewTTL <= 0 {
		return errors.Errorf("VIEW_TTL must be positive, got %s", c.ViewTTL)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "LOG_LEVEL")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", c.LogFormat)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errors.Wrap(err, "APP_TIMEZONE")
	}
	c.location = loc
	return nil
}

// Location is the zone used for "today" and for displaying timestamps.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}
