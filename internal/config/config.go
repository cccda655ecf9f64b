package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend names the credential store implementation.
type StoreBackend string

const (
	BackendMongo    StoreBackend = "mongo"
	BackendPostgres StoreBackend = "postgres"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	DatabaseName    string
	Backend         StoreBackend
	VerboseHealth   bool
	ConnectTimeout  time.Duration
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	CORSOrigins     []string
	LogLevel        string
}

const (
	defaultRunAddress      = ":5000"
	defaultDatabaseName    = "CS"
	defaultConnectTimeout  = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultRateLimitRPS    = 10
	defaultRateLimitBurst  = 20
	defaultCORSOrigins     = "*"
	defaultLogLevel        = "info"
	defaultEnvFile         = "config.env"
)

// Load parses configuration from flags, environment variables and an optional dotenv file.
func Load() (*Config, error) {
	fileEnv, err := readEnvFile(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], chain(os.LookupEnv, mapLookup(fileEnv)))
}

// LoadEnv is Load without command-line flags, for hosts that own os.Args.
func LoadEnv() (*Config, error) {
	fileEnv, err := readEnvFile(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return load(nil, chain(os.LookupEnv, mapLookup(fileEnv)))
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      runAddress(lookup),
		DatabaseURI:     getString(lookup, "DATABASE_URI", getString(lookup, "ATLAS_URI", "")),
		DatabaseName:    getString(lookup, "DATABASE_NAME", defaultDatabaseName),
		VerboseHealth:   getBool(lookup, "VERBOSE_HEALTH", false),
		ConnectTimeout:  getDuration(lookup, "CONNECT_TIMEOUT", defaultConnectTimeout),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		RateLimitRPS:    getFloat(lookup, "RATE_LIMIT_RPS", defaultRateLimitRPS),
		RateLimitBurst:  getInt(lookup, "RATE_LIMIT_BURST", defaultRateLimitBurst),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("celestial", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		connectTimeoutStr  = cfg.ConnectTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		corsOrigins        = getString(lookup, "CORS_ORIGINS", defaultCORSOrigins)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "MongoDB or PostgreSQL connection string")
	fs.StringVar(&cfg.DatabaseName, "db-name", cfg.DatabaseName, "MongoDB database name")
	fs.BoolVar(&cfg.VerboseHealth, "verbose-health", cfg.VerboseHealth, "Include store error detail in health responses")
	fs.StringVar(&connectTimeoutStr, "connect-timeout", connectTimeoutStr, "Store connect timeout")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.Float64Var(&cfg.RateLimitRPS, "rate-limit", cfg.RateLimitRPS, "Auth requests per second per client, 0 disables")
	fs.IntVar(&cfg.RateLimitBurst, "rate-burst", cfg.RateLimitBurst, "Auth rate limit burst")
	fs.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated CORS origins, * allows any")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ConnectTimeout, err = time.ParseDuration(connectTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid connect timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RateLimitRPS < 0 {
		cfg.RateLimitRPS = 0
	}

	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	cfg.CORSOrigins = splitList(corsOrigins)

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.Backend, err = BackendFor(cfg.DatabaseURI); err != nil {
		return nil, err
	}

	return cfg, nil
}

// BackendFor selects the store implementation from the connection string scheme.
func BackendFor(uri string) (StoreBackend, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return "", fmt.Errorf("database URI has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database URI scheme %q", scheme)
	}
}

func readEnvFile(lookup envLookup) (map[string]string, error) {
	path := getString(lookup, "CONFIG_ENV_FILE", defaultEnvFile)
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return values, nil
}

func runAddress(lookup envLookup) string {
	if v, ok := lookup("RUN_ADDRESS"); ok && v != "" {
		return v
	}
	if port, ok := lookup("PORT"); ok && port != "" {
		return ":" + port
	}
	return defaultRunAddress
}

func chain(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
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

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
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
