package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	SeedSourceSample   = "sample"
	SeedSourcePostgres = "postgres"
)

type Config struct {
	Port    string
	AppEnv  string
	LogJSON bool

	JWTSecret     string
	SessionTTL    time.Duration
	SessionCookie string
	DemoPassword  string

	RedisAddr   string
	KafkaBroker string

	SeedSource string
	SeedCount  int
	SeedRandom uint64

	DB DatabaseConfig
}

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if present) and then the process environment.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, which keeps tests away from os.Setenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:          get("PORT", "3000"),
		AppEnv:        get("APP_ENV", "development"),
		JWTSecret:     getenv("JWT_SECRET"),
		SessionCookie: get("SESSION_COOKIE", "ems_session"),
		DemoPassword:  getenv("DEMO_PASSWORD"),
		RedisAddr:     getenv("REDIS_ADDR"),
		KafkaBroker:   getenv("KAFKA_BROKER"),
		SeedSource:    get("SEED_SOURCE", SeedSourceSample),
		DB: DatabaseConfig{
			Host:     getenv("DB_HOST"),
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME"),
			Port:     get("DB_PORT", "5432"),
			SSLMode:  get("DB_SSLMODE", "disable"),
		},
	}

	var err error
	if cfg.LogJSON, err = strconv.ParseBool(get("LOG_JSON", "false")); err != nil {
		return Config{}, fmt.Errorf("config: LOG_JSON: %w", err)
	}
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("config: SESSION_TTL: %w", err)
	}
	if cfg.SeedCount, err = strconv.Atoi(get("SEED_COUNT", "50")); err != nil {
		return Config{}, fmt.Errorf("config: SEED_COUNT: %w", err)
	}
	if cfg.SeedRandom, err = strconv.ParseUint(get("SEED_RANDOM", "42"), 10, 64); err != nil {
		return Config{}, fmt.Errorf("config: SEED_RANDOM: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	if c.SeedCount < 0 {
		return fmt.Errorf("config: SEED_COUNT must not be negative")
	}
	switch c.SeedSource {
	case SeedSourceSample:
	case SeedSourcePostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			return fmt.Errorf("config: DB_HOST and DB_NAME are required when SEED_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown SEED_SOURCE %q", c.SeedSource)
	}
	return nil
}
