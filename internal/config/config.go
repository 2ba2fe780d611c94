package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from the environment.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	GinMode    string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBUser     string `env:"DB_USER" envDefault:"taskforce"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"taskforce"`
	DBName     string `env:"DB_NAME" envDefault:"taskforce"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"default-secret-key-change-me"`
	JWTSecret     string `env:"JWT_SECRET" envDefault:"default-jwt-secret-change-me"`
}

// Load builds Config from environment variables with development defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
