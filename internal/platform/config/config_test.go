package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"FINAI_ADDR", "LOG_LEVEL", "LOG_FORMAT", "REDIS_URL", "DATABASE_URL",
		"KAFKA_BROKERS", "AUDIT_ASYNC_BUFFER", "RATE_LIMIT_PER_MINUTE", "SEED_DEMO_DATA", "ADMIN_JWT_SIGNING_KEY"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "finai.decisions", cfg.Kafka.DecisionTopic)
	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
	assert.False(t, cfg.SeedDemoData)
	assert.True(t, cfg.UsesDevSigningKey())
	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("FINAI_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,kafka-1:9092,")
	t.Setenv("AUDIT_ASYNC_BUFFER", "256")
	t.Setenv("REDIS_READ_TIMEOUT", "750ms")
	t.Setenv("SEED_DEMO_DATA", "true")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 256, cfg.Audit.AsyncBuffer)
	assert.Equal(t, 750*time.Millisecond, cfg.Redis.ReadTimeout)
	assert.True(t, cfg.SeedDemoData)
}

func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("REDIS_POOL_SIZE", "1.5")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := FromEnv()

	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	cfg := FromEnv()
	cfg.Log.Level = "verbose"
	cfg.Log.Format = "xml"
	cfg.RateLimit.PerMinute = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
	assert.Contains(t, err.Error(), "RATE_LIMIT_PER_MINUTE")
}
