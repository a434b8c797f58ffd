package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const minSecretKeyLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	SecretKey       string `env:"SECRET_KEY"`
	DBPath          string `env:"DB_PATH" envDefault:"data/saludboard.db"`
	Port            string `env:"PORT" envDefault:"8080"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"es"`
	Timezone        string `env:"TZ" envDefault:"UTC"`
	CookieSecure    bool   `env:"COOKIE_SECURE" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"saludboard.events"`

	CompletionLockTTL time.Duration `env:"COMPLETION_LOCK_TTL" envDefault:"30s"`
}

// Load reads an optional .env file, then the process environment, and
// validates the result.
func Load(envFiles ...string) (Config, error) {
	cfg, err := parse(envFiles)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStorage is Load for maintenance commands that only touch the database.
// SECRET_KEY and PORT are not required.
func LoadStorage(envFiles ...string) (Config, error) {
	cfg, err := parse(envFiles)
	if err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return Config{}, errors.New("DB_PATH is required")
	}
	return cfg, nil
}

func parse(envFiles []string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	if err := ValidateSecretKey(cfg.SecretKey); err != nil {
		return err
	}
	if err := ValidatePort(cfg.Port); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is invalid", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", cfg.LogFormat)
	}
	if cfg.CompletionLockTTL <= 0 {
		return errors.New("COMPLETION_LOCK_TTL must be positive")
	}
	return nil
}

func ValidateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(trimmed)]; insecure {
		return errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(trimmed) < minSecretKeyLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func ValidatePort(raw string) error {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("PORT %q is not a number", raw)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT %d is out of range", port)
	}
	return nil
}

func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (cfg Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
