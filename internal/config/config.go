package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServiceConfig struct {
	Port        string
	BindAddress string
	LogDir      string
	LogLevel    string
	TxTimeout   time.Duration
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	CORSCfg     CORSConfig
	AuthCfg     AuthConfig
}

type PostgresConfig struct {
	// DatabaseURL takes precedence over the individual fields when set.
	DatabaseURL string
	DBname      string
	Username    string
	Password    string
	Host        string
	Port        string
	SSLMode     string
}

type RabbitMQConfig struct {
	Enabled  bool
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type AuthConfig struct {
	Enabled       bool
	AllowedUsers  []string
	SessionCookie string
	SessionPrefix string
}

// New reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func New() *ServiceConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	return &ServiceConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		BindAddress: getEnvOrDefault("BIND_ADDRESS", "0.0.0.0"),
		LogDir:      getEnvOrDefault("LOG_DIR", "logs"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		TxTimeout:   getDurationOrDefault("TX_TIMEOUT", 5*time.Second),
		PostgresCfg: PostgresConfig{
			DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
			DBname:      getEnvOrDefault("POSTGRES_DB", "insure"),
			Username:    getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password:    getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:        getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:        getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:     getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
		},
		RabbitMQCfg: RabbitMQConfig{
			Enabled:  getBoolOrDefault("RABBITMQ_ENABLED", true),
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		CORSCfg: CORSConfig{
			AllowedOrigins: getListOrDefault("CORS_ORIGIN", []string{"http://localhost:4200"}),
		},
		AuthCfg: AuthConfig{
			Enabled:       getBoolOrDefault("AUTH_ENABLED", true),
			AllowedUsers:  getListOrDefault("ALLOWED_USERS", nil),
			SessionCookie: getEnvOrDefault("SESSION_COOKIE", "session_id"),
			SessionPrefix: getEnvOrDefault("SESSION_PREFIX", "insure:session:"),
		},
	}
}

func (c *ServiceConfig) ListenAddress() string {
	return c.BindAddress + ":" + c.Port
}

// DSN returns the lib/pq connection string for the configured database.
func (c PostgresConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.dsnFor(c.DBname)
}

// AdminDSN points at the maintenance database, used to create DBname when it
// does not exist yet.
func (c PostgresConfig) AdminDSN() string {
	return c.dsnFor("postgres")
}

func (c PostgresConfig) dsnFor(dbName string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.Password, dbName, c.SSLMode)
}

func (c RabbitMQConfig) URL() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/",
	}
	return u.String()
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("Invalid boolean in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return b
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}

// getListOrDefault splits a comma separated variable, dropping blanks.
func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
