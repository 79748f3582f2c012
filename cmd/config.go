package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	FormatJSON = "json"
	FormatText = "text"
)

type Config struct {
	HTTPPort               string
	DBDriver               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	SQLitePath             string
	JWTSecret              string
	MatchRetryInterval     time.Duration
	KafkaHost              string
	KafkaOrderChangedTopic string
	AllowAdminDelete       bool
	LogLevel               string
	LogFormat              string
}

// LoadConfig reads configuration in order: envFile (if present) → environment → args.
// Later sources override earlier ones.
func LoadConfig(envFile string, args []string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	interval, err := envDuration("MATCH_RETRY_INTERVAL", 60*time.Second)
	if err != nil {
		return Config{}, err
	}
	allowDelete, err := envBool("ALLOW_ADMIN_DELETE", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort:               env("HTTP_PORT", "8080"),
		DBDriver:               env("DB_DRIVER", DriverPostgres),
		DBHost:                 env("DB_HOST", "localhost"),
		DBPort:                 env("DB_PORT", "5432"),
		DBUser:                 env("DB_USER", "postgres"),
		DBPassword:             env("DB_PASSWORD", ""),
		DBName:                 env("DB_NAME", "fulfillment"),
		DBSslMode:              env("DB_SSLMODE", "disable"),
		SQLitePath:             env("SQLITE_PATH", "fulfillment.db"),
		JWTSecret:              env("JWT_SECRET", ""),
		MatchRetryInterval:     interval,
		KafkaHost:              env("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: env("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		AllowAdminDelete:       allowDelete,
		LogLevel:               env("LOG_LEVEL", "info"),
		LogFormat:              env("LOG_FORMAT", FormatJSON),
	}

	flags := pflag.NewFlagSet("fulfillment", pflag.ContinueOnError)
	flags.StringVarP(&cfg.HTTPPort, "http-port", "p", cfg.HTTPPort, "port to listen on")
	flags.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "store driver: postgres or sqlite")
	flags.StringVar(&cfg.DBHost, "db-host", cfg.DBHost, "postgres host")
	flags.StringVar(&cfg.DBPort, "db-port", cfg.DBPort, "postgres port")
	flags.StringVar(&cfg.DBUser, "db-user", cfg.DBUser, "postgres user")
	flags.StringVar(&cfg.DBName, "db-name", cfg.DBName, "postgres database")
	flags.StringVar(&cfg.DBSslMode, "db-sslmode", cfg.DBSslMode, "postgres sslmode")
	flags.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "sqlite database file")
	flags.DurationVar(&cfg.MatchRetryInterval, "match-retry-interval", cfg.MatchRetryInterval, "pending match sweep cadence")
	flags.StringVar(&cfg.KafkaHost, "kafka-host", cfg.KafkaHost, "comma separated kafka brokers; empty disables events")
	flags.StringVar(&cfg.KafkaOrderChangedTopic, "kafka-order-changed-topic", cfg.KafkaOrderChangedTopic, "order changed topic")
	flags.BoolVar(&cfg.AllowAdminDelete, "allow-admin-delete", cfg.AllowAdminDelete, "let admins soft-delete orders past Basket")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "json or text")
	if err = flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []error

	if p, err := strconv.Atoi(c.HTTPPort); err != nil || p <= 0 || p > 65535 {
		problems = append(problems, fmt.Errorf("invalid port: %s", c.HTTPPort))
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		problems = append(problems, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.DBDriver == DriverSQLite && c.SQLitePath == "" {
		problems = append(problems, errors.New("SQLITE_PATH is required for the sqlite driver"))
	}
	if c.JWTSecret == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if c.MatchRetryInterval < time.Second {
		problems = append(problems, fmt.Errorf("MATCH_RETRY_INTERVAL must be at least 1s, got %s", c.MatchRetryInterval))
	}
	if _, err := c.SlogLevel(); err != nil {
		problems = append(problems, err)
	}
	switch c.LogFormat {
	case FormatJSON, FormatText:
	default:
		problems = append(problems, fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat))
	}

	return errors.Join(problems...)
}

func (c Config) Postgres() postgres.PostgresConfig {
	return postgres.PostgresConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// KafkaBrokers splits KafkaHost. Empty means event publication is disabled.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
