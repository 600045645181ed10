package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig

	Database DatabaseConfig

	Redis RedisConfig

	Firebase FirebaseConfig

	Notification NotificationConfig

	Email EmailConfig
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port        string
	Host        string
	Environment string // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string
	Port         string
	Username     string
	Password     string
	DatabaseName string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// FirebaseConfig contains Firebase Cloud Messaging configuration
type FirebaseConfig struct {
	ProjectID           string
	CredentialsFilePath string
	Enabled             bool
}

// NotificationConfig tunes the fan-out pipeline and delivery workers
type NotificationConfig struct {
	MaxRetries           int // Max delivery attempts per job
	RetryDelaySeconds    int // Base backoff, doubled per attempt
	CompletedRetentionHr int // How long completed jobs are kept
	FailedRetentionHr    int // Failed jobs are kept longer for inspection
}

// EmailConfig contains email service configuration (optional)
type EmailConfig struct {
	SMTPHost  string
	SMTPPort  int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	Enabled   bool
}

// Load builds the config from environment variables with sane defaults.
// Call godotenv.Load in main first if a .env file is in play.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("SERVER_PORT", "8080"),
			Host:        getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("DB_HOST", "localhost"),
			Port:         getEnvOrDefault("DB_PORT", "3306"),
			Username:     getEnvOrDefault("DB_USER", "alumnihub"),
			Password:     getEnvOrDefault("DB_PASSWORD", ""),
			DatabaseName: getEnvOrDefault("DB_NAME", "alumnihub"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getEnvIntOrDefault("REDIS_DB", 0),
			PoolSize: getEnvIntOrDefault("REDIS_POOL_SIZE", 10),
		},
		Firebase: FirebaseConfig{
			ProjectID:           getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
			CredentialsFilePath: getEnvOrDefault("FIREBASE_CREDENTIALS_PATH", ""),
			Enabled:             getEnvOrDefault("FIREBASE_ENABLED", "false") == "true",
		},
		Notification: NotificationConfig{
			MaxRetries:           getEnvIntOrDefault("NOTIF_MAX_RETRIES", 3),
			RetryDelaySeconds:    getEnvIntOrDefault("NOTIF_RETRY_DELAY", 5),
			CompletedRetentionHr: getEnvIntOrDefault("NOTIF_COMPLETED_RETENTION_HOURS", 1),
			FailedRetentionHr:    getEnvIntOrDefault("NOTIF_FAILED_RETENTION_HOURS", 24),
		},
		Email: EmailConfig{
			SMTPHost:  getEnvOrDefault("SMTP_HOST", ""),
			SMTPPort:  getEnvIntOrDefault("SMTP_PORT", 587),
			Username:  getEnvOrDefault("SMTP_USERNAME", ""),
			Password:  getEnvOrDefault("SMTP_PASSWORD", ""),
			FromEmail: getEnvOrDefault("FROM_EMAIL", "noreply@alumnihub.io"),
			FromName:  getEnvOrDefault("FROM_NAME", "AlumniHub"),
			Enabled:   getEnvOrDefault("EMAIL_ENABLED", "false") == "true",
		},
	}
}

// DSN builds the MySQL connection string.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
