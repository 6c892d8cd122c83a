package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Postgres struct {
		Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
		Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
		User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
		Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
		Database        string        `env:"POSTGRES_DB" envDefault:"crewhub"`
		SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25"`
		MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
		ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"5m"`

		// If true, the app runs pending migrations on start.
		AutoMigrate    bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
		MigrationsPath string `env:"DB_MIGRATIONS_PATH" envDefault:"migrations"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		BotToken string `env:"BOT_TOKEN,required"`
		// Group chat that receives member notifications.
		GroupChatID int64   `env:"GROUP_CHAT_ID,required"`
		AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`
		// Freshness window for mini-app init-data, in seconds.
		InitDataTTL int `env:"INIT_DATA_TTL" envDefault:"86400"`
	}

	ConvState struct {
		// memory (single instance) or redis (multi-instance deployments).
		Backend string        `env:"CONVSTATE_BACKEND" envDefault:"memory"`
		TTL     time.Duration `env:"CONVSTATE_TTL" envDefault:"10m"`
	}
}

func Load() (*Config, error) {
	// Ignore a missing .env file; in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// GetDSN builds the Postgres connection URL, accepted by both lib/pq and
// golang-migrate.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Postgres.User), url.QueryEscape(c.Postgres.Password),
		c.Postgres.Host, c.Postgres.Port, c.Postgres.Database, c.Postgres.SSLMode)
}

// InitDataMaxAge returns the init-data freshness window as a duration.
func (c *Config) InitDataMaxAge() time.Duration {
	return time.Duration(c.Telegram.InitDataTTL) * time.Second
}

// IsAdmin reports whether the given Telegram user is a configured admin.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
