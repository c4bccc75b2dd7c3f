// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds database configuration settings
type DatabaseConfig struct {
	Type     string // "mongo", "postgres" or "memory"
	URI      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds settings for the read-cache store.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Redis          *RedisConfig
	JWTSecret      string
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Type:    "mongo",
		Port:    27017,
		SSLMode: "require", // Only meaningful for postgres
	}
}

// DefaultRedisConfig provides default read-cache settings
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled: false,
		Host:    "localhost",
		Port:    6379,
		DB:      0,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; env vars may come from the environment itself
	_ = godotenv.Load()

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := DefaultDatabaseConfig()

	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		dbConfig.Type = dbType
	}

	switch dbConfig.Type {
	case "mongo":
		dbConfig.URI = getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017")
		dbConfig.Name = getEnvOrDefault("DB_NAME", "devlog")

	case "postgres":
		// Prioritize DATABASE_URL if provided
		if uri := os.Getenv("DATABASE_URL"); uri != "" {
			dbConfig.URI = uri
		} else {
			dbConfig.Host = getEnvOrDefault("DB_HOST", "localhost")

			if portStr := os.Getenv("DB_PORT"); portStr != "" {
				if port, err := strconv.Atoi(portStr); err == nil {
					dbConfig.Port = port
				}
			} else {
				dbConfig.Port = 5432
			}

			dbConfig.User = os.Getenv("DB_USER")
			if dbConfig.User == "" {
				return nil, fmt.Errorf("DB_USER environment variable is required when DB_TYPE is postgres and DATABASE_URL is not set")
			}

			dbConfig.Password = os.Getenv("DB_PASSWORD")
			if dbConfig.Password == "" {
				return nil, fmt.Errorf("DB_PASSWORD environment variable is required when DB_TYPE is postgres and DATABASE_URL is not set")
			}

			dbConfig.Name = getEnvOrDefault("DB_NAME", "postgres")
			dbConfig.SSLMode = getEnvOrDefault("DB_SSL_MODE", "require")

			dbConfig.URI = fmt.Sprintf(
				"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
				dbConfig.User,
				dbConfig.Password,
				dbConfig.Host,
				dbConfig.Port,
				dbConfig.Name,
				dbConfig.SSLMode,
			)
		}

	case "memory":
		// In-memory adapter for local development and tests; nothing to configure

	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", dbConfig.Type)
	}

	redisConfig := DefaultRedisConfig()
	if host := os.Getenv("REDIS_HOST"); host != "" {
		redisConfig.Enabled = true
		redisConfig.Host = host
	}
	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			redisConfig.Port = port
		}
	}
	redisConfig.Password = os.Getenv("REDIS_PASSWORD")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisConfig.DB = db
		}
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Redis:          redisConfig,
		JWTSecret:      getEnvOrDefault("JWT_SECRET", "devlog_secret_key_should_be_loaded_from_env"),
		AllowedOrigins: []string{"*"},
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
