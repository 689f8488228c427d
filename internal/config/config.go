package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the prep service.
// Environment variables are parsed from the PREP_BACKEND_ prefix,
// e.g. PREP_BACKEND_HTTP_PORT, PREP_BACKEND_GRAPH_BASE_URL.
type Config struct {
	// Build target selects the deployment flavor: local, cloud-dev
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Store driver; "auto" derives from BuildTarget
	StoreDriver string `envconfig:"STORE_DRIVER" default:"auto"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store backends
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"data/prepwise.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Workspace Graph collaborator
	GraphBaseURL        string `envconfig:"GRAPH_BASE_URL" default:"http://localhost:9080"`
	GraphToken          string `envconfig:"GRAPH_TOKEN" default:""`
	GraphTimeoutSeconds int    `envconfig:"GRAPH_TIMEOUT_SECONDS" default:"15"`

	// Relevance / summarization oracle
	OracleBaseURL        string `envconfig:"ORACLE_BASE_URL" default:"http://localhost:11434"`
	OracleModel          string `envconfig:"ORACLE_MODEL" default:"llama3.1"`
	OracleTimeoutSeconds int    `envconfig:"ORACLE_TIMEOUT_SECONDS" default:"60"`

	// Discovery pipeline tuning
	DiscoveryTTLMinutes int `envconfig:"DISCOVERY_TTL_MINUTES" default:"30"`
	LookbackDays        int `envconfig:"LOOKBACK_DAYS" default:"30"`
	FetchLimit          int `envconfig:"FETCH_LIMIT" default:"25"`

	// Health monitoring
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`
}

// ResolveDefaults validates BuildTarget and derives StoreDriver when set to
// "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultStore string

	switch c.BuildTarget {
	case "local":
		defaultStore = "sqlite"
	case "cloud-dev":
		defaultStore = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.StoreDriver == "" || c.StoreDriver == "auto" {
		c.StoreDriver = defaultStore
	}

	allowed := map[string]bool{"sqlite": true, "postgres": true}
	if !allowed[c.StoreDriver] {
		return fmt.Errorf("unsupported STORE_DRIVER: %s", c.StoreDriver)
	}
	if c.DiscoveryTTLMinutes <= 0 {
		return fmt.Errorf("DISCOVERY_TTL_MINUTES must be positive")
	}
	return nil
}

// New creates a Config by parsing PREP_BACKEND_-prefixed environment
// variables and resolving derived defaults.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("PREP_BACKEND", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests.
func NewForTesting() *Config {
	cfg := &Config{
		BuildTarget:               "local",
		StoreDriver:               "sqlite",
		HTTPPort:                  8080,
		SQLitePath:                ":memory:",
		GraphBaseURL:              "http://localhost:9080",
		GraphTimeoutSeconds:       1,
		OracleBaseURL:             "http://localhost:11434",
		OracleModel:               "test-model",
		OracleTimeoutSeconds:      1,
		DiscoveryTTLMinutes:       30,
		LookbackDays:              30,
		FetchLimit:                25,
		HealthIntervalSeconds:     30,
		HealthProbeTimeoutSeconds: 2,
	}
	return cfg
}

// GetHTTPAddr returns the HTTP server listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
