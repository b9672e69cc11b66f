package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverXata     = "xata"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	StoreDriver string

	XataAPIKey      string
	XataWorkspaceID string
	XataDBName      string
	XataBranch      string
	XataRegion      string
	XataBaseURL     string

	DatabaseURI string

	MongoURI    string
	MongoDBName string

	CORSAllowedOrigins []string
	LogLevel           slog.Level
	ShutdownTimeout    time.Duration
	StoreTimeout       time.Duration

	OTLPEndpoint string
	ServiceName  string
}

const (
	defaultRunAddress      = ":8080"
	defaultStoreDriver     = DriverXata
	defaultXataBranch      = "main"
	defaultXataRegion      = "us-west-2"
	defaultMongoDBName     = "orders"
	defaultCORSOrigins     = "https://react-orders-frontend.onrender.com,http://localhost:3000"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
	defaultStoreTimeout    = 10 * time.Second
	defaultServiceName     = "detta3d-orders"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StoreDriver:     getString(lookup, "STORE_DRIVER", defaultStoreDriver),
		XataAPIKey:      getString(lookup, "XATA_API_KEY", ""),
		XataWorkspaceID: getString(lookup, "XATA_WORKSPACE_ID", ""),
		XataDBName:      getString(lookup, "XATA_DB_NAME", ""),
		XataBranch:      getString(lookup, "XATA_BRANCH", defaultXataBranch),
		XataRegion:      getString(lookup, "XATA_REGION", defaultXataRegion),
		XataBaseURL:     getString(lookup, "XATA_BASE_URL", ""),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		MongoURI:        getString(lookup, "MONGO_URI", ""),
		MongoDBName:     getString(lookup, "MONGO_DB_NAME", defaultMongoDBName),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		StoreTimeout:    getDuration(lookup, "STORE_TIMEOUT", defaultStoreTimeout),
		OTLPEndpoint:    getString(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:     getString(lookup, "SERVICE_NAME", defaultServiceName),
	}

	fs := flag.NewFlagSet("ordersapi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		storeTimeoutStr    = cfg.StoreTimeout.String()
		originsStr         = getString(lookup, "CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Order store driver: xata, postgres or mongo")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&storeTimeoutStr, "store-timeout", storeTimeoutStr, "Timeout for a single store call")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Minimum log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.StoreTimeout, err = time.ParseDuration(storeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg.CORSAllowedOrigins = splitList(originsStr)
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	switch c.StoreDriver {
	case DriverXata:
		if c.XataAPIKey == "" {
			missing = append(missing, "XATA_API_KEY")
		}
		if c.XataBaseURL == "" {
			if c.XataWorkspaceID == "" {
				missing = append(missing, "XATA_WORKSPACE_ID")
			}
			if c.XataDBName == "" {
				missing = append(missing, "XATA_DB_NAME")
			}
		}
	case DriverPostgres:
		if c.DatabaseURI == "" {
			missing = append(missing, "DATABASE_URI")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	default:
		return &domainErrors.ConfigurationError{Reason: fmt.Sprintf("unknown store driver %q", c.StoreDriver)}
	}

	if len(missing) > 0 {
		return &domainErrors.ConfigurationError{
			Missing: missing,
			Reason:  c.StoreDriver + " store credentials not configured",
		}
	}

	if len(c.CORSAllowedOrigins) == 0 {
		return &domainErrors.ConfigurationError{
			Missing: []string{"CORS_ALLOWED_ORIGINS"},
			Reason:  "no allowed origins",
		}
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return &domainErrors.ConfigurationError{Reason: fmt.Sprintf("invalid CORS origin %q", origin)}
		}
	}
	return nil
}

// XataDatabaseURL returns the branch URL every Xata request is relative to.
func (c *Config) XataDatabaseURL() string {
	if c.XataBaseURL != "" {
		return strings.TrimRight(c.XataBaseURL, "/")
	}
	return fmt.Sprintf("https://%s.%s.xata.sh/db/%s:%s", c.XataWorkspaceID, c.XataRegion, c.XataDBName, c.XataBranch)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
