package config

import (
	"fmt"
	"net/url"
	"time"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds runtime settings for the taskdesk CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API, e.g. "http://localhost:8080/api/v1".
//   - SessionStore: "memory" (session ends with the process) or "sqlite".
//   - SessionDBPath: SQLite file used when SessionStore is "sqlite".
//   - ToastTTL: how long a notification stays visible.
//   - HTTPTimeout: per-request timeout; zero keeps the transport defaults.
//   - LogLevel: debug, info, warn or error.
//
// The env tags name the environment variables read by parseEnv.
type Config struct {
	APIBaseURL    string        `env:"TASKDESK_API_URL"`
	SessionStore  string        `env:"TASKDESK_SESSION_STORE"`
	SessionDBPath string        `env:"TASKDESK_SESSION_DB"`
	ToastTTL      time.Duration `env:"TASKDESK_TOAST_TTL"`
	HTTPTimeout   time.Duration `env:"TASKDESK_HTTP_TIMEOUT"`
	LogLevel      string        `env:"TASKDESK_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8080/api/v1"
	c.SessionStore = StoreSQLite
	c.SessionDBPath = "~/.taskdesk/session.db"
	c.ToastTTL = 4 * time.Second
	c.HTTPTimeout = 0
	c.LogLevel = "info"
}

// Validate reports settings the CLI cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api base url %q", c.APIBaseURL)
	}
	switch c.SessionStore {
	case StoreMemory:
	case StoreSQLite:
		if c.SessionDBPath == "" {
			return fmt.Errorf("session db path is required for the %s store", StoreSQLite)
		}
	default:
		return fmt.Errorf("unknown session store %q (want %s or %s)", c.SessionStore, StoreMemory, StoreSQLite)
	}
	if c.ToastTTL <= 0 {
		return fmt.Errorf("toast ttl must be positive, got %s", c.ToastTTL)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (including a .env file in the working
// directory) and command-line flags. Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg, ".env")
	parseFlags(cfg)
	return cfg
}
