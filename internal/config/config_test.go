package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CORS_ORIGIN", "")
	t.Setenv("TX_TIMEOUT", "")

	cfg := New()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.Equal(t, []string{"http://localhost:4200"}, cfg.CORSCfg.AllowedOrigins)
	assert.Equal(t, "session_id", cfg.AuthCfg.SessionCookie)
	assert.Contains(t, cfg.PostgresCfg.DSN(), "dbname=insure")
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BIND_ADDRESS", "127.0.0.1")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/insure?sslmode=disable")
	t.Setenv("CORS_ORIGIN", "https://a.example, ,https://b.example")
	t.Setenv("ALLOWED_USERS", "one@example.com,two@example.com")
	t.Setenv("TX_TIMEOUT", "2s")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")

	cfg := New()

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress())
	assert.Equal(t, "postgres://u:p@db/insure?sslmode=disable", cfg.PostgresCfg.DSN())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSCfg.AllowedOrigins)
	assert.Equal(t, []string{"one@example.com", "two@example.com"}, cfg.AuthCfg.AllowedUsers)
	assert.Equal(t, 2*time.Second, cfg.TxTimeout)
	assert.False(t, cfg.AuthCfg.Enabled)
	assert.Equal(t, 3, cfg.RedisCfg.DB)
}

func TestNew_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TX_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("RABBITMQ_ENABLED", "maybe")

	cfg := New()

	assert.Equal(t, 5*time.Second, cfg.TxTimeout)
	assert.Equal(t, 0, cfg.RedisCfg.DB)
	assert.True(t, cfg.RabbitMQCfg.Enabled)
}

func TestRabbitMQConfig_URL(t *testing.T) {
	cfg := RabbitMQConfig{Username: "guest", Password: "p@ss", Host: "mq", Port: "5672"}
	assert.Equal(t, "amqp://guest:p%40ss@mq:5672/", cfg.URL())
}
