package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the API and its tools.
type Config struct {
	Port string `envconfig:"PORT" default:"3000"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"postgres"`
	DBPassword  string `envconfig:"DB_PASSWORD"`
	DBName      string `envconfig:"DB_NAME" default:"padaria"`
	DBTimeZone  string `envconfig:"DB_TIMEZONE" default:"America/Sao_Paulo"`

	JWTSecret          string `envconfig:"JWT_SECRET" default:"your-super-secret-key-change-in-production"`
	JWTExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`

	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"5m"`

	// none | reserve | fulfil
	CommissionStockPolicy string `envconfig:"COMMISSION_STOCK_POLICY" default:"none"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@padaria.local"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.CommissionStockPolicy) {
	case "none", "reserve", "fulfil":
	default:
		return fmt.Errorf("config: COMMISSION_STOCK_POLICY must be none, reserve or fulfil, got %q", c.CommissionStockPolicy)
	}
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must be provided")
	}
	return nil
}

// DSN returns DATABASE_URL or a DSN assembled from the DB_* variables.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBTimeZone,
	)
}

// JWTTTL converts the configured expiration to a duration.
func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}
