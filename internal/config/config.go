package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	defaultDBPath         = "./ghanabuild.db"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultRequestTimeout = 15 * time.Second
)

// Catalog sources.
const (
	SourceEmbedded = "embedded"
	SourceYAML     = "yaml"
	SourceSQLite   = "sqlite"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port           string
	CatalogSource  string
	CatalogPath    string
	DBPath         string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: values already in the environment win over the file.
	_ = loadDotEnv(".env")
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching
// .env files.
func FromEnv() Config {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		CatalogSource: strings.ToLower(strings.TrimSpace(os.Getenv("CATALOG_SOURCE"))),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		DBPath:        os.Getenv("DB_PATH"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     strings.ToLower(os.Getenv("LOG_FORMAT")),
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.CatalogSource == "" {
		cfg.CatalogSource = SourceEmbedded
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	switch cfg.LogFormat {
	case "json", "text":
	case "":
		cfg.LogFormat = defaultLogFormat
	default:
		slog.Warn("unknown LOG_FORMAT, using json", "value", cfg.LogFormat)
		cfg.LogFormat = defaultLogFormat
	}

	cfg.RequestTimeout = defaultRequestTimeout
	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			slog.Warn("invalid REQUEST_TIMEOUT, using default", "value", raw, "default", defaultRequestTimeout)
		} else {
			cfg.RequestTimeout = d
		}
	}

	return cfg
}

// Validate reports configuration that cannot produce a catalog.
func (c Config) Validate() error {
	var errs []error
	switch c.CatalogSource {
	case SourceEmbedded:
	case SourceYAML:
		if c.CatalogPath == "" {
			errs = append(errs, errors.New("CATALOG_PATH is required when CATALOG_SOURCE=yaml"))
		}
	case SourceSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required when CATALOG_SOURCE=sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CATALOG_SOURCE %q", c.CatalogSource))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
