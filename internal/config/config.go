package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Business-hours bounds for bookable appointment times, inclusive.
	BusinessOpen  string `mapstructure:"BUSINESS_OPEN"`
	BusinessClose string `mapstructure:"BUSINESS_CLOSE"`

	// Reference status names. Statuses are always resolved by name so that
	// clinics can reseed their status table without renumbering anything.
	StatusActive    string `mapstructure:"STATUS_ACTIVE"`
	StatusInactive  string `mapstructure:"STATUS_INACTIVE"`
	StatusCancelled string `mapstructure:"STATUS_CANCELLED"`

	AuditBuffer int `mapstructure:"AUDIT_BUFFER"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BUSINESS_OPEN", "06:00")
	v.SetDefault("BUSINESS_CLOSE", "20:00")
	v.SetDefault("STATUS_ACTIVE", "Active")
	v.SetDefault("STATUS_INACTIVE", "Inactive")
	v.SetDefault("STATUS_CANCELLED", "Cancelled")
	v.SetDefault("AUDIT_BUFFER", 256)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("BUSINESS_OPEN")
	v.BindEnv("BUSINESS_CLOSE")
	v.BindEnv("STATUS_ACTIVE")
	v.BindEnv("STATUS_INACTIVE")
	v.BindEnv("STATUS_CANCELLED")
	v.BindEnv("AUDIT_BUFFER")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run with.
func (c *Config) Validate() error {
	open, err := time.Parse("15:04", c.BusinessOpen)
	if err != nil {
		return fmt.Errorf("BUSINESS_OPEN must be in HH:MM format, got %q", c.BusinessOpen)
	}
	close, err := time.Parse("15:04", c.BusinessClose)
	if err != nil {
		return fmt.Errorf("BUSINESS_CLOSE must be in HH:MM format, got %q", c.BusinessClose)
	}
	if close.Before(open) {
		return fmt.Errorf("BUSINESS_CLOSE (%s) must not be earlier than BUSINESS_OPEN (%s)", c.BusinessClose, c.BusinessOpen)
	}

	for name, value := range map[string]string{
		"STATUS_ACTIVE":    c.StatusActive,
		"STATUS_INACTIVE":  c.StatusInactive,
		"STATUS_CANCELLED": c.StatusCancelled,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be empty", name)
		}
	}

	if c.AuditBuffer <= 0 {
		return fmt.Errorf("AUDIT_BUFFER must be positive, got %d", c.AuditBuffer)
	}

	return nil
}
