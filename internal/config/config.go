package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	SourceMemory   = "memory"
	SourcePostgres = "postgres"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Finboard"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	// Source selects where transactions come from: the bundled sample data
	// or Postgres.
	Source string `envconfig:"SOURCE" default:"memory"`

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finboard"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	}

	Export struct {
		Dir   string `envconfig:"EXPORT_DIR" default:"exports"`
		Title string `envconfig:"EXPORT_TITLE" default:"Transactions"`
	}

	Import struct {
		Account string `envconfig:"IMPORT_ACCOUNT" default:""`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.Source = strings.ToLower(strings.TrimSpace(cfg.Source))
	if cfg.Source != SourceMemory && cfg.Source != SourcePostgres {
		return nil, fmt.Errorf("invalid SOURCE %q: want %s or %s", cfg.Source, SourceMemory, SourcePostgres)
	}

	return &cfg, nil
}
