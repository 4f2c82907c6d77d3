package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// API contains API server configuration
	API APIConfig
	// Auth contains authentication and token configuration
	Auth AuthConfig
	// Device contains device change-lock policy configuration
	Device DeviceConfig
	// Database contains database configuration
	Database DatabaseConfig
	// Redis contains the rate-limit counter store configuration
	Redis RedisConfig
	// SMTP contains notification delivery configuration
	SMTP SMTPConfig
}

// APIConfig contains API server settings
type APIConfig struct {
	// Port is the server port to listen on
	Port string
}

// AuthConfig contains authentication settings
type AuthConfig struct {
	// JWTSecret is the secret key used to sign JWT tokens
	JWTSecret string
	// AccessTokenDuration is the lifetime of stateless access tokens
	AccessTokenDuration time.Duration
	// RefreshTokenDuration is the lifetime of persisted refresh tokens
	RefreshTokenDuration time.Duration
	// MaxLoginAttempts is the consecutive-failure threshold that locks an
	// account
	MaxLoginAttempts int
	// LockoutDuration is how long a locked account stays locked
	LockoutDuration time.Duration
}

// DeviceConfig contains device change-lock policy settings
type DeviceConfig struct {
	// WarnAtChange is the lifetime change count that triggers a warning
	WarnAtChange int
	// LockAtChange is the lifetime change count that locks the account
	// pending admin review
	LockAtChange int
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string
	// Port is the database server port
	Port int
	// User is the database username
	User string
	// Password is the database password
	Password string
	// DBName is the database name
	DBName string
	// SSLMode is the SSL mode for the database connection
	SSLMode string
	// MigrationsPath is the path to database migrations
	MigrationsPath string
}

// RedisConfig contains the shared counter store settings
type RedisConfig struct {
	// Addr is the Redis host:port
	Addr string
	// Password is the Redis password, empty for none
	Password string
	// DB is the Redis database index
	DB int
}

// SMTPConfig contains notification email settings
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
}

// LoadFromEnv retrieves configuration from environment variables
func (c *Config) LoadFromEnv() error {
	c.API = APIConfig{
		Port: getEnvOrDefault("API_PORT", "8080"),
	}
	c.Auth = AuthConfig{
		JWTSecret:            os.Getenv("JWT_SECRET"),
		AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
		RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
		MaxLoginAttempts:     getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
		LockoutDuration:      getEnvAsDuration("LOCKOUT_DURATION", 30*time.Minute),
	}
	c.Device = DeviceConfig{
		WarnAtChange: getEnvAsInt("DEVICE_WARN_AT_CHANGE", 3),
		LockAtChange: getEnvAsInt("DEVICE_LOCK_AT_CHANGE", 6),
	}
	c.Database = DatabaseConfig{
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvAsInt("DB_PORT", 5432),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		DBName:         getEnvOrDefault("DB_NAME", "authguard"),
		SSLMode:        getEnvOrDefault("DB_SSL_MODE", "disable"),
		MigrationsPath: getEnvOrDefault("DB_MIGRATIONS_PATH", "migrations"),
	}
	c.Redis = RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
	c.SMTP = SMTPConfig{
		Host:        os.Getenv("SMTP_HOST"),
		Port:        getEnvAsInt("SMTP_PORT", 587),
		Username:    os.Getenv("SMTP_USERNAME"),
		Password:    os.Getenv("SMTP_PASSWORD"),
		FromAddress: os.Getenv("SMTP_FROM"),
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Device.WarnAtChange >= c.Device.LockAtChange {
		return fmt.Errorf("DEVICE_WARN_AT_CHANGE must be below DEVICE_LOCK_AT_CHANGE")
	}

	return nil
}

// getEnvAsInt retrieves an environment variable and converts it to an integer
func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvAsDuration retrieves an environment variable and parses it as a duration
func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
