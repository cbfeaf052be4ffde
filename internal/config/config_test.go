package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "secret", Name: "transit", SSLMode: "disable"},
		JWT:      JWTConfig{Secret: "jwt", AccessExpiration: "1h"},
		App:      AppConfig{Port: 8080, Timezone: "UTC"},
		Storage:  StorageConfig{MaxReceiptSize: 5 << 20},
		Booking:  BookingConfig{SweepInterval: 15 * time.Minute},
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cases := map[string]func(c *Config){
		"missing db password": func(c *Config) { c.Database.Password = "" },
		"missing jwt secret":  func(c *Config) { c.JWT.Secret = "" },
		"bad jwt expiration":  func(c *Config) { c.JWT.AccessExpiration = "soon" },
		"zero sweep interval": func(c *Config) { c.Booking.SweepInterval = 0 },
		"zero receipt size":   func(c *Config) { c.Storage.MaxReceiptSize = 0 },
		"unknown timezone":    func(c *Config) { c.App.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_Load_FromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "transit")
	t.Setenv("DB_SSL_MODE", "disable")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("STORAGE_MAX_RECEIPT_SIZE", "5242880")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("BOOKING_SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Booking.SweepInterval)
	assert.Equal(t, int64(5242880), cfg.Storage.MaxReceiptSize)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/transit?sslmode=disable", cfg.DatabaseURL())
	assert.Equal(t, time.UTC, cfg.Location())
}
