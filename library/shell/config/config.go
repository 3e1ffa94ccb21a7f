package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// The supported event store adapters.
const (
	AdapterPGXPool = "pgx"
	AdapterSQLDB   = "sql"
	AdapterSQLX    = "sqlx"
	AdapterMemory  = "memory"
)

// The supported metrics backends.
const (
	MetricsPrometheus = "prometheus"
	MetricsOTel       = "otel"
	MetricsNone       = "none"
)

const envPrefix = "LENDING_"

var (
	// ErrReadingConfigFailed is returned when the config file can't be read or parsed.
	ErrReadingConfigFailed = errors.New("reading the config failed")

	// ErrInvalidConfig wraps all problems found by Validate.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the complete server configuration.
type Config struct {
	Server        Server        `yaml:"server"`
	Database      Database      `yaml:"database"`
	Auth          Auth          `yaml:"auth"`
	Scanner       Scanner       `yaml:"scanner"`
	Observability Observability `yaml:"observability"`
	CORS          CORS          `yaml:"cors"`
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Database selects the event store adapter and its connections.
type Database struct {
	Adapter    string `yaml:"adapter"`
	DSN        string `yaml:"dsn"`
	ReplicaDSN string `yaml:"replica_dsn"`
	TableName  string `yaml:"table_name"`
	Pool       Pool   `yaml:"pool"`
}

// Pool sizes the connection pools.
type Pool struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MinConns        int           `yaml:"min_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

// Auth configures token issuing and the bootstrap admin.
type Auth struct {
	Secret     string         `yaml:"secret"`
	Issuer     string         `yaml:"issuer"`
	TokenTTL   time.Duration  `yaml:"token_ttl"`
	BcryptCost int            `yaml:"bcrypt_cost"`
	Admin      BootstrapAdmin `yaml:"admin"`
}

// BootstrapAdmin is created on startup when Username is set.
type BootstrapAdmin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// Scanner configures the overdue sweep.
type Scanner struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
	RedisURL string        `yaml:"redis_url"`
	LockKey  string        `yaml:"lock_key"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// Observability configures logging, tracing and metrics.
type Observability struct {
	ServiceName    string `yaml:"service_name"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	MetricsBackend string `yaml:"metrics_backend"`
}

// CORS lists the origins browsers may call the API from.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns a configuration that runs the server against the in-memory store.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			Adapter:   AdapterMemory,
			TableName: "events",
			Pool: Pool{
				MaxOpenConns:    50,
				MinConns:        2,
				MaxIdleConns:    10,
				MaxConnLifetime: time.Hour,
				MaxConnIdleTime: 5 * time.Minute,
				ConnectTimeout:  5 * time.Second,
			},
		},
		Auth: Auth{
			Issuer:   "library-lending",
			TokenTTL: 24 * time.Hour,
		},
		Scanner: Scanner{
			Enabled:  true,
			Interval: time.Hour,
			LockKey:  "library-lending:overdue-sweep",
			LockTTL:  5 * time.Minute,
		},
		Observability: Observability{
			ServiceName:    "library-lending",
			LogLevel:       "info",
			LogFormat:      "json",
			MetricsBackend: MetricsPrometheus,
		},
		CORS: CORS{
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

// Load starts from Default, applies the YAML file at path when path is not empty,
// then the LENDING_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadingConfigFailed, err)
		}

		if err = yaml.Unmarshal(buf, &cfg); err != nil {
			return Config{}, errors.Join(ErrReadingConfigFailed, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, errors.Join(ErrReadingConfigFailed, err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"SERVER_ADDR":          &c.Server.Addr,
		"DATABASE_ADAPTER":     &c.Database.Adapter,
		"DATABASE_DSN":         &c.Database.DSN,
		"DATABASE_REPLICA_DSN": &c.Database.ReplicaDSN,
		"DATABASE_TABLE_NAME":  &c.Database.TableName,
		"AUTH_SECRET":          &c.Auth.Secret,
		"AUTH_ISSUER":          &c.Auth.Issuer,
		"ADMIN_USERNAME":       &c.Auth.Admin.Username,
		"ADMIN_PASSWORD":       &c.Auth.Admin.Password,
		"ADMIN_NAME":           &c.Auth.Admin.Name,
		"SCANNER_REDIS_URL":    &c.Scanner.RedisURL,
		"LOG_LEVEL":            &c.Observability.LogLevel,
		"LOG_FORMAT":           &c.Observability.LogFormat,
		"OTLP_ENDPOINT":        &c.Observability.OTLPEndpoint,
		"METRICS_BACKEND":      &c.Observability.MetricsBackend,
	}
	for key, target := range strs {
		if value, ok := lookupEnv(key); ok {
			*target = value
		}
	}

	durations := map[string]*time.Duration{
		"AUTH_TOKEN_TTL":   &c.Auth.TokenTTL,
		"SCANNER_INTERVAL": &c.Scanner.Interval,
		"SCANNER_LOCK_TTL": &c.Scanner.LockTTL,
	}
	for key, target := range durations {
		value, ok := lookupEnv(key)
		if !ok {
			continue
		}

		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
		}

		*target = parsed
	}

	if value, ok := lookupEnv("SCANNER_ENABLED"); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %sSCANNER_ENABLED: %w", envPrefix, err)
		}

		c.Scanner.Enabled = enabled
	}

	if value, ok := lookupEnv("CORS_ORIGINS"); ok {
		c.CORS.AllowedOrigins = splitCSV(value)
	}

	return nil
}

// Validate reports all problems at once.
func (c Config) Validate() error {
	var problems []error

	switch c.Database.Adapter {
	case AdapterMemory:
	case AdapterPGXPool, AdapterSQLDB, AdapterSQLX:
		if c.Database.DSN == "" {
			problems = append(problems, fmt.Errorf("database.dsn is required for adapter %s", c.Database.Adapter))
		}
		if c.Database.ReplicaDSN != "" && c.Database.Adapter != AdapterPGXPool {
			problems = append(problems, errors.New("database.replica_dsn is only supported by the pgx adapter"))
		}
	default:
		problems = append(problems, fmt.Errorf("database.adapter %q is unknown", c.Database.Adapter))
	}

	if c.Auth.Secret == "" {
		problems = append(problems, errors.New("auth.secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, errors.New("auth.token_ttl must be positive"))
	}
	if (c.Auth.Admin.Username == "") != (c.Auth.Admin.Password == "") {
		problems = append(problems, errors.New("auth.admin needs both username and password"))
	}

	if c.Scanner.Enabled && c.Scanner.Interval <= 0 {
		problems = append(problems, errors.New("scanner.interval must be positive"))
	}
	if c.Scanner.RedisURL != "" && c.Scanner.LockTTL <= 0 {
		problems = append(problems, errors.New("scanner.lock_ttl must be positive"))
	}

	if _, err := c.Observability.Level(); err != nil {
		problems = append(problems, err)
	}
	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "text" {
		problems = append(problems, fmt.Errorf("observability.log_format %q is unknown", c.Observability.LogFormat))
	}
	switch c.Observability.MetricsBackend {
	case MetricsPrometheus, MetricsOTel, MetricsNone:
	default:
		problems = append(problems, fmt.Errorf("observability.metrics_backend %q is unknown", c.Observability.MetricsBackend))
	}

	if len(problems) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrInvalidConfig}, problems...)...)
}

// Level parses the configured log level.
func (o Observability) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return 0, fmt.Errorf("observability.log_level %q is unknown", o.LogLevel)
	}

	return level, nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}

	return strings.TrimSpace(value), true
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
