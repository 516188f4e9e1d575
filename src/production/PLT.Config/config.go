package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// MongoDB configuration
	Mongo MongoConfig `json:"mongo"`

	// Auth configuration
	Auth AuthConfig `json:"auth"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// CORS configuration
	CORS CORSConfig `json:"cors"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// MongoConfig holds MongoDB-related configuration
type MongoConfig struct {
	URI                string        `json:"uri"`
	Database           string        `json:"database"`
	UsersCollection    string        `json:"users_collection"`
	SessionsCollection string        `json:"sessions_collection"`
	ConnectTimeout     time.Duration `json:"connect_timeout"`
	OperationTimeout   time.Duration `json:"operation_timeout"`
}

// AuthConfig holds authentication-related configuration
type AuthConfig struct {
	AppSecret            string        `json:"app_secret"`
	Issuer               string        `json:"issuer"`
	UserTokenDuration    time.Duration `json:"user_token_duration"`
	SessionTokenDuration time.Duration `json:"session_token_duration"`
	BcryptCost           int           `json:"bcrypt_cost"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level        string `json:"level"`
	Format       string `json:"format"` // json or text
	Output       string `json:"output"` // stdout or stderr
	EnableCaller bool   `json:"enable_caller"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	ExposedHeaders   []string `json:"exposed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
	MaxAge           int      `json:"max_age"`
}

// Load loads configuration from the environment, with an optional .env file
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	if err := godotenv.Load(); err != nil {
		// Environment variables can also be set directly
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "7890"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Mongo: MongoConfig{
			URI:                getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:           getEnv("MONGODB_DATABASE", "plantonomous"),
			UsersCollection:    getEnv("MONGODB_USERS_COLLECTION", "users"),
			SessionsCollection: getEnv("MONGODB_SESSIONS_COLLECTION", "pidatasessions"),
			ConnectTimeout:     getDuration("MONGODB_CONNECT_TIMEOUT", 30*time.Second),
			OperationTimeout:   getDuration("MONGODB_OPERATION_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			AppSecret:            getEnv("APP_SECRET", "change-this-secret-in-production"),
			Issuer:               getEnv("JWT_ISSUER", "plt-telemetry-service"),
			UserTokenDuration:    getDuration("USER_TOKEN_DURATION", 24*time.Hour),
			SessionTokenDuration: getDuration("SESSION_TOKEN_DURATION", 365*24*time.Hour),
			BcryptCost:           getInt("BCRYPT_COST", 10),
		},
		Logging: LoggingConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			Format:       getEnv("LOG_FORMAT", "text"),
			Output:       getEnv("LOG_OUTPUT", "stdout"),
			EnableCaller: getBool("LOG_ENABLE_CALLER", false),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getStringSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getStringSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			ExposedHeaders:   getStringSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			AllowCredentials: getBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getInt("CORS_MAX_AGE", 43200), // 12 hours
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("MONGODB_DATABASE is required")
	}
	if c.Auth.AppSecret == "change-this-secret-in-production" {
		log.Println("WARNING: Using default app secret. Change APP_SECRET in production!")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.Auth.UserTokenDuration <= 0 {
		return fmt.Errorf("USER_TOKEN_DURATION must be positive")
	}
	if c.Auth.SessionTokenDuration <= 0 {
		return fmt.Errorf("SESSION_TOKEN_DURATION must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return intValue
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if value == "1" || value == "true" || value == "TRUE" {
		return true
	}
	if value == "0" || value == "false" || value == "FALSE" {
		return false
	}
	log.Fatalf("invalid %s: %q (expected true/false or 1/0)", key, value)
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return duration
}

func getStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
