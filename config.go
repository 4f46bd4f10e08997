package tolet

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/tolet/api"
	"github.com/eringen/tolet/session"
	"github.com/eringen/tolet/staging"
)

// SiteConfig holds all configuration for a tolet site.
type SiteConfig struct {
	Name       string `yaml:"name"`        // Site name (default "To-Let")
	Addr       string `yaml:"addr"`        // Listen address (default ":3000")
	BackendURL string `yaml:"backend_url"` // REST backend (default api.DefaultBaseURL)

	DatabasePath  string `yaml:"database_path"` // SQLite session store (default "data/sessions.db")
	SessionSecret string `yaml:"session_secret"`
	CookieSecure  bool   `yaml:"cookie_secure"`

	SessionTTL      time.Duration `yaml:"session_ttl"`       // default 7 days
	DraftTTL        time.Duration `yaml:"draft_ttl"`         // idle form lifetime (default 2h)
	ListingCacheTTL time.Duration `yaml:"listing_cache_ttl"` // default 5min

	StagingDir string              `yaml:"staging_dir"` // default "data/staging"
	Minio      staging.MinioConfig `yaml:"minio"`       // used instead of StagingDir when Endpoint is set

	RedisAddr     string `yaml:"redis_addr"` // sessions and login limits go to Redis when set
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "To-Let"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.BackendURL == "" {
		c.BackendURL = api.DefaultBaseURL
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/sessions.db"
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}
	if c.DraftTTL == 0 {
		c.DraftTTL = 2 * time.Hour
	}
	if c.ListingCacheTTL == 0 {
		c.ListingCacheTTL = 5 * time.Minute
	}
	if c.StagingDir == "" {
		c.StagingDir = "data/staging"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports missing required settings and negative lifetimes.
func (c SiteConfig) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("tolet: SessionSecret is required"))
	}
	if c.BackendURL == "" {
		errs = append(errs, errors.New("tolet: BackendURL is required"))
	}
	for _, d := range []struct {
		name string
		ttl  time.Duration
	}{
		{"session_ttl", c.SessionTTL},
		{"draft_ttl", c.DraftTTL},
		{"listing_cache_ttl", c.ListingCacheTTL},
	} {
		if d.ttl < 0 {
			errs = append(errs, fmt.Errorf("tolet: %s must not be negative (got %s)", d.name, d.ttl))
		}
	}
	if c.Minio.Endpoint != "" && c.Minio.Bucket == "" {
		errs = append(errs, errors.New("tolet: minio bucket is required with an endpoint"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads an optional YAML file and then applies environment
// overrides. A missing path is not an error.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func applyEnv(c *SiteConfig) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	str(&c.Name, "TOLET_NAME")
	str(&c.Addr, "TOLET_ADDR")
	str(&c.BackendURL, "TOLET_BACKEND_URL")
	str(&c.DatabasePath, "TOLET_DATABASE_PATH")
	str(&c.SessionSecret, "TOLET_SESSION_SECRET", "SESSION_SECRET")
	str(&c.StagingDir, "TOLET_STAGING_DIR")
	str(&c.RedisAddr, "TOLET_REDIS_ADDR", "REDIS_ADDR")
	str(&c.RedisPassword, "TOLET_REDIS_PASSWORD", "REDIS_PASSWORD")
	str(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	str(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	str(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	str(&c.Minio.Bucket, "MINIO_BUCKET")
	str(&c.LogLevel, "TOLET_LOG_LEVEL")
	str(&c.LogFile, "TOLET_LOG_FILE")

	if v := os.Getenv("TOLET_COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TOLET_COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MINIO_USE_SSL: %w", err)
		}
		c.Minio.UseSSL = b
	}
	if v := os.Getenv("TOLET_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOLET_REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TOLET_SESSION_TTL", &c.SessionTTL},
		{"TOLET_DRAFT_TTL", &c.DraftTTL},
		{"TOLET_LISTING_CACHE_TTL", &c.ListingCacheTTL},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		dur, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = dur
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithSessionBackend replaces the configured session store.
func WithSessionBackend(b session.Backend) Option {
	return func(a *App) {
		a.sessionBackend = b
	}
}

// WithStagingStore replaces the configured staging store.
func WithStagingStore(s staging.Store) Option {
	return func(a *App) {
		a.stagingStore = s
	}
}

// WithHTTPClient sets the client used for backend calls.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithLimiter replaces the login limiter.
func WithLimiter(l Limiter) Option {
	return func(a *App) {
		a.limiter = l
	}
}
