// Package config builds the typed service configuration from environment
// variables so main stays lean.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	strutil "finai/pkg/platform/strings"
)

// Config is the full service configuration.
type Config struct {
	Server    Server
	Log       LogConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Kafka     KafkaConfig
	Audit     AuditConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	// SeedDemoData loads the demo applicant set into an empty pipeline store.
	SeedDemoData bool
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// RedisConfig configures the optional Redis connection. An empty URL keeps
// chat history in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig configures the optional PostgreSQL connection. An empty URL
// keeps applications and audit events in memory.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures decision event streaming. No brokers disables it.
type KafkaConfig struct {
	Brokers       []string
	DecisionTopic string
	ConsumerGroup string
}

type AuditConfig struct {
	// AsyncBuffer > 0 makes audit emission asynchronous with this buffer size.
	AsyncBuffer int
	// ChatSampleRate is the fraction of chat_message events kept.
	ChatSampleRate float64
}

type AdminConfig struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
}

type RateLimitConfig struct {
	// PerMinute is the per-client request budget; 0 disables rate limiting.
	PerMinute int
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Config from environment variables. Unparseable numeric
// values fall back to their defaults.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getEnv("FINAI_ADDR", ":8080"),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			DecisionTopic: getEnv("KAFKA_DECISION_TOPIC", "finai.decisions"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "finai-audit"),
		},
		Audit: AuditConfig{
			AsyncBuffer:    getEnvInt("AUDIT_ASYNC_BUFFER", 0),
			ChatSampleRate: getEnvFloat("AUDIT_CHAT_SAMPLE_RATE", 1),
		},
		Admin: AdminConfig{
			JWTSigningKey: getEnv("ADMIN_JWT_SIGNING_KEY", devSigningKey),
			Issuer:        getEnv("ADMIN_JWT_ISSUER", "finai"),
			Audience:      getEnv("ADMIN_JWT_AUDIENCE", "finai-admin"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		SeedDemoData: getEnvBool("SEED_DEMO_DATA", false),
	}
}

// Validate reports configuration that would make the service misbehave.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("FINAI_ADDR must not be empty"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q is not one of json, text", c.Log.Format))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.DecisionTopic == "" {
		errs = append(errs, errors.New("KAFKA_DECISION_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if c.Audit.AsyncBuffer < 0 {
		errs = append(errs, errors.New("AUDIT_ASYNC_BUFFER must be >= 0"))
	}
	if c.Audit.ChatSampleRate < 0 || c.Audit.ChatSampleRate > 1 {
		errs = append(errs, errors.New("AUDIT_CHAT_SAMPLE_RATE must be between 0 and 1"))
	}
	if c.RateLimit.PerMinute < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be >= 0"))
	}
	if c.Admin.JWTSigningKey == "" {
		errs = append(errs, errors.New("ADMIN_JWT_SIGNING_KEY must not be empty"))
	}
	return errors.Join(errs...)
}

// UsesDevSigningKey reports whether the admin key was left at its development default.
func (c Config) UsesDevSigningKey() bool {
	return c.Admin.JWTSigningKey == devSigningKey
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	return strutil.SplitList(raw, ",")
}
