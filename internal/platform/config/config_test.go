package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuthFromEnvDefaults(t *testing.T) {
	cfg := AuthFromEnv()

	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, "user.created", cfg.UserTopic)
	assert.False(t, cfg.Production)
}

func TestAuthFromEnvOverrides(t *testing.T) {
	t.Setenv("AUTH_ADDR", ":9000")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("ENVIRONMENT", "production")

	cfg := AuthFromEnv()

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Brokers)
	assert.True(t, cfg.Production)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "not-a-duration")
	t.Setenv("BCRYPT_COST", "not-a-number")

	cfg := AuthFromEnv()

	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestNotificationFromEnvDefaults(t *testing.T) {
	cfg := NotificationFromEnv()

	assert.Equal(t, "notification-service", cfg.ConsumerGroup)
	assert.Equal(t, "user.created", cfg.UserTopic)
	assert.NotEmpty(t, cfg.MailFrom)
}
