package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Mongo    MongoConfig
	Booking  BookingConfig
}

type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"transit"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string `envconfig:"JWT_SECRET_KEY"`
	AccessExpiration string `envconfig:"JWT_ACCESS_EXPIRATION_TIME" default:"24h"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int      `envconfig:"APP_PORT" default:"8080"`
	Env            string   `envconfig:"APP_ENV" default:"development"`
	LogLevel       string   `envconfig:"LOG_LEVEL" default:"info"`
	Timezone       string   `envconfig:"APP_TIMEZONE" default:"Asia/Colombo"`
	CompanyName    string   `envconfig:"APP_COMPANY_NAME" default:"City Transit"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"payroll@localhost"`
	FromName string `envconfig:"SMTP_FROM_NAME" default:"Transit Payroll"`
}

type StorageConfig struct {
	BasePath       string `envconfig:"STORAGE_BASE_PATH" default:"./uploads"`
	MaxReceiptSize int64  `envconfig:"STORAGE_MAX_RECEIPT_SIZE" default:"5242880"`
}

// MongoConfig points at the document store used for the slip delivery log.
// An empty URI turns the log off.
type MongoConfig struct {
	URI      string `envconfig:"MONGO_URI"`
	Database string `envconfig:"MONGO_DATABASE" default:"transit"`
}

type BookingConfig struct {
	SweepInterval time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"15m"`
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Booking.SweepInterval <= 0 {
		return fmt.Errorf("BOOKING_SWEEP_INTERVAL must be positive")
	}
	if c.Storage.MaxReceiptSize <= 0 {
		return fmt.Errorf("STORAGE_MAX_RECEIPT_SIZE must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the business timezone used for attendance dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
