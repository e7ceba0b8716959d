package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Event backends understood by EVENTS_BACKEND.
const (
	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsRedis = "redis"
)

// devJWTSecret signs tokens when APP_ENV is test or development and
// JWT_SECRET_KEY is unset. It is rejected everywhere else.
const devJWTSecret = "secret"

// Config holds application, database, token, hashing and event settings.
// It is built once in main and handed to constructors explicitly.
type Config struct {
	AppHost   string
	AppPort   string
	AppEnv    string
	LogLevel  string
	LogFormat string

	// SwaggerURL is the doc.json location for the swagger UI; empty keeps
	// /swagger unmounted.
	SwaggerURL string

	PostgresHost         string
	PostgresPort         int
	PostgresUser         string
	PostgresPassword     string
	PostgresDB           string
	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	JWTSecretKey string
	JWTExp       time.Duration

	BcryptCost int

	EventsBackend string
	KafkaBrokers  []string
	KafkaTopic    string

	RedisHost          string
	RedisPort          int
	RedisDB            int
	RedisPassword      string
	RedisPoolSize      int
	RedisMinIdleConns  int
	RedisChannelPrefix string
}

// Load reads variables from the env file at path (if present) and the
// process environment, applying defaults for anything unset.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var (
		cfg Config
		err error
	)

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.AppEnv = getEnv("APP_ENV", "production")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("APP_LOG_FORMAT", "json")
	cfg.SwaggerURL = getEnv("APP_SWAGGER_URL", "")

	// PostgreSQL config
	cfg.PostgresHost = getEnv("POSTGRES_HOST", "localhost")
	cfg.PostgresUser = getEnv("POSTGRES_USER", "user")
	cfg.PostgresPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.PostgresDB = getEnv("POSTGRES_DB", "messagely")
	if cfg.PostgresPort, err = getInt("POSTGRES_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return nil, err
	}
	if cfg.PostgresMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return nil, err
	}

	// JWT config
	defaultSecret := ""
	if cfg.IsDev() {
		defaultSecret = devJWTSecret
	}
	cfg.JWTSecretKey = getEnv("JWT_SECRET_KEY", defaultSecret)
	expSeconds, err := getInt("JWT_EXP_SECOND", 86400)
	if err != nil {
		return nil, err
	}
	cfg.JWTExp = time.Duration(expSeconds) * time.Second

	// Password hashing: cheap under APP_ENV=test unless set explicitly
	defaultCost := 12
	if cfg.AppEnv == "test" {
		defaultCost = bcrypt.MinCost
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", defaultCost); err != nil {
		return nil, err
	}

	// Events config
	cfg.EventsBackend = strings.ToLower(getEnv("EVENTS_BACKEND", EventsNone))
	cfg.KafkaBrokers = splitList(getEnv("KAFKA_BROKERS", "localhost:9092"))
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "messages")

	// Redis config
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	if cfg.RedisPort, err = getInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return nil, err
	}
	cfg.RedisChannelPrefix = getEnv("REDIS_CHANNEL_PREFIX", "messages:")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught while parsing.
func (c *Config) Validate() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY must be set")
	}
	if c.JWTSecretKey == devJWTSecret && !c.IsDev() {
		return fmt.Errorf("JWT_SECRET_KEY must not be the development default when APP_ENV=%s", c.AppEnv)
	}
	if c.JWTExp <= 0 {
		return fmt.Errorf("JWT_EXP_SECOND must be positive")
	}
	switch c.EventsBackend {
	case EventsNone, EventsRedis:
	case EventsKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must not be empty when EVENTS_BACKEND=kafka")
		}
	default:
		return fmt.Errorf("unknown EVENTS_BACKEND %q", c.EventsBackend)
	}
	return nil
}

// IsDev reports whether APP_ENV is test or development.
func (c *Config) IsDev() bool {
	return c.AppEnv == "test" || c.AppEnv == "development"
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.AppHost, c.AppPort)
}

// PostgresDSN builds the connection string for the pgx driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

// RedisAddr is the host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
