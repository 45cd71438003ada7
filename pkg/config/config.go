// Package config loads the service configuration.
//
// Values are resolved in three layers: DefaultConfig, an optional YAML file,
// then environment variables (a .env file is loaded first when present).
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	CatalogSourceStatic   = "static"
	CatalogSourcePostgres = "postgres"
)

// Config represents the complete service configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Catalog       CatalogConfig       `yaml:"catalog"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port               int           `yaml:"port"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	IdleTimeout        time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	RateLimitPerSecond int           `yaml:"rate_limit_per_second"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
	AllowedOrigins     []string      `yaml:"allowed_origins"`
	// PublicBaseURL is the site origin used to build shareable review links.
	PublicBaseURL string `yaml:"public_base_url"`
}

// DatabaseConfig configures the Postgres pool
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// AuthConfig holds verification secrets. Tokens are minted elsewhere.
type AuthConfig struct {
	JWTSecret  string `yaml:"jwt_secret"`
	SessionKey string `yaml:"session_key"`
}

// ObservabilityConfig configures logging and metrics
type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
}

// CatalogConfig selects where properties are loaded from.
type CatalogConfig struct {
	Source   string        `yaml:"source"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// DSN builds the pgx connection string.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8000,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       15 * time.Second,
			IdleTimeout:        60 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			RateLimitPerSecond: 20,
			RateLimitBurst:     40,
			AllowedOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
			PublicBaseURL:      "http://localhost:5173",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "farmstay",
			SSLMode:         "disable",
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: 5 * time.Minute,
			MaxConnIdleTime: 10 * time.Minute,
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: true,
			LogLevel:       "info",
			LogFormat:      "text",
		},
		Catalog: CatalogConfig{
			Source:   CatalogSourcePostgres,
			CacheTTL: 5 * time.Minute,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535"))
	}
	if c.Server.RateLimitPerSecond < 0 || c.Server.RateLimitBurst < 0 {
		errs = append(errs, fmt.Errorf("server rate limits cannot be negative"))
	}
	if c.Server.PublicBaseURL != "" {
		if u, err := url.Parse(c.Server.PublicBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("server.public_base_url must be an absolute URL"))
		}
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, fmt.Errorf("auth.jwt_secret is required"))
	}
	if len(c.Auth.SessionKey) < 32 {
		errs = append(errs, fmt.Errorf("auth.session_key must be at least 32 bytes"))
	}
	switch c.Catalog.Source {
	case CatalogSourceStatic, CatalogSourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("catalog.source must be %q or %q", CatalogSourceStatic, CatalogSourcePostgres))
	}
	if c.Catalog.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("catalog.cache_ttl cannot be negative"))
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.host and database.name are required"))
	}
	switch strings.ToLower(c.Observability.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("observability.log_format must be text or json"))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Load resolves defaults, the optional YAML file at path and the environment,
// then validates the result.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	num("SERVER_PORT", &c.Server.Port)
	num("RATE_LIMIT_PER_SECOND", &c.Server.RateLimitPerSecond)
	num("RATE_LIMIT_BURST", &c.Server.RateLimitBurst)
	str("PUBLIC_BASE_URL", &c.Server.PublicBaseURL)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	str("DB_HOST", &c.Database.Host)
	num("DB_PORT", &c.Database.Port)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	str("DB_SSLMODE", &c.Database.SSLMode)

	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("SESSION_KEY", &c.Auth.SessionKey)

	str("LOG_LEVEL", &c.Observability.LogLevel)
	str("LOG_FORMAT", &c.Observability.LogFormat)
	if v, ok := lookup("METRICS_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("METRICS_ENABLED: %w", err))
		} else {
			c.Observability.MetricsEnabled = b
		}
	}

	str("CATALOG_SOURCE", &c.Catalog.Source)
	dur("CATALOG_CACHE_TTL", &c.Catalog.CacheTTL)

	return errors.Join(errs...)
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
