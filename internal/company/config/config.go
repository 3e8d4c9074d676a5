// Package config loads the company service settings from a YAML file and
// lets environment variables with the same keys override them.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gartstein/crm/internal/company/db"
	"github.com/gartstein/crm/internal/company/handlers"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when COMPANY_CONFIG is not set.
const DefaultPath = "config/company.yaml"

// Config mirrors the keys of config/company.yaml.
type Config struct {
	GRPCPort     int      `yaml:"GRPC_PORT"`
	HTTPPort     int      `yaml:"HTTP_PORT"`
	DBDriver     string   `yaml:"DB_DRIVER"`
	DBPath       string   `yaml:"DB_PATH"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	JWTSecret    string   `yaml:"JWT_SECRET"`
	// RateLimit is the per-IP budget for mutating requests per minute.
	RateLimit    int           `yaml:"RATE_LIMIT"`
	MaxBodyBytes int64         `yaml:"MAX_BODY_BYTES"`
	DBRetryMax   time.Duration `yaml:"DB_RETRY_MAX"`
	LogLevel     string        `yaml:"LOG_LEVEL"`
}

// Default returns the settings used for keys that are neither in the file
// nor in the environment.
func Default() *Config {
	return &Config{
		GRPCPort:     50051,
		HTTPPort:     8080,
		DBDriver:     db.DriverPostgres,
		DBHost:       "localhost",
		DBPort:       5432,
		DBUser:       "postgres",
		DBName:       "crm",
		DBSSLMode:    "disable",
		Topic:        "company-events",
		RateLimit:    60,
		MaxBodyBytes: 1 << 20,
		DBRetryMax:   30 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads .env (if present), then the YAML file named by COMPANY_CONFIG or
// DefaultPath (if present), then applies environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	path := os.Getenv("COMPANY_CONFIG")
	if path == "" {
		path = DefaultPath
	}
	return LoadFile(path)
}

// LoadFile is Load without the .env step. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var errs []error
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}

	setInt("GRPC_PORT", &c.GRPCPort)
	setInt("HTTP_PORT", &c.HTTPPort)
	setString("DB_DRIVER", &c.DBDriver)
	setString("DB_PATH", &c.DBPath)
	setString("DB_HOST", &c.DBHost)
	setInt("DB_PORT", &c.DBPort)
	setString("DB_USER", &c.DBUser)
	setString("DB_PASSWORD", &c.DBPassword)
	setString("DB_NAME", &c.DBName)
	setString("DB_SSLMODE", &c.DBSSLMode)
	setString("TOPIC", &c.Topic)
	setString("JWT_SECRET", &c.JWTSecret)
	setInt("RATE_LIMIT", &c.RateLimit)
	setString("LOG_LEVEL", &c.LogLevel)

	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		c.KafkaBrokers = splitList(v)
	}
	if v, ok := os.LookupEnv("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_BODY_BYTES: %w", err))
		} else {
			c.MaxBodyBytes = n
		}
	}
	if v, ok := os.LookupEnv("DB_RETRY_MAX"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DB_RETRY_MAX: %w", err))
		} else {
			c.DBRetryMax = d
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.HTTPPort <= 0 || c.GRPCPort <= 0 {
		return errors.New("HTTP_PORT and GRPC_PORT must be positive")
	}
	if c.HTTPPort == c.GRPCPort {
		return errors.New("HTTP_PORT and GRPC_PORT must differ")
	}
	return nil
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

// Router returns the REST middleware settings.
func (c *Config) Router() handlers.RouterConfig {
	return handlers.RouterConfig{
		JWTSecret:    c.JWTSecret,
		RateLimit:    c.RateLimit,
		RateWindow:   time.Minute,
		MaxBodyBytes: c.MaxBodyBytes,
	}
}

// KafkaEnabled reports whether change events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
