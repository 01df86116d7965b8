// Package config provides configuration loading and management for the Sendy application.
package config

import (
	"context"
	"os"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/roguepikachu/sendy/pkg/logger"
)

// Config holds environment configuration for the Sendy application.
type Config struct {
	// SendyPort is the port on which the Sendy server runs.
	SendyPort string `env:"SENDY_PORT"`

	// PostgresURL is a full DSN; when set it wins over the discrete fields.
	PostgresURL      string `env:"POSTGRES_URL"`
	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDB       string `env:"POSTGRES_DB"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"`

	// RedisAddr is the host:port of the Redis instance used for tokens
	// and the domain read cache.
	RedisAddr string `env:"REDIS_ADDR"`

	// DomainCacheTTLSeconds bounds how long a domain record may be served
	// from cache before the primary store is consulted again.
	DomainCacheTTLSeconds int `env:"DOMAIN_CACHE_TTL_SECONDS" envDefault:"60"`

	// AccessTokenTTLSeconds is the lifetime of minted access tokens,
	// independent of any domain's expiry.
	AccessTokenTTLSeconds int `env:"ACCESS_TOKEN_TTL_SECONDS" envDefault:"3600"`

	// CORSOrigins is a comma-separated list of allowed origins.
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173,http://localhost:3000"`
}

// Conf holds the global configuration for the Sendy application.
var Conf Config

func loadDotEnv() {
	// Load .env file at the root of the project into environment if present.
	// Does not override existing environ variable
	path := os.Getenv("DOTENV_PATHS")
	if path != "" {
		err := godotenv.Load(strings.Split(path, ",")...)
		if err != nil {
			logger.Fatal(context.Background(), err.Error())
		}
	}
}

// InitConf initializes the global configuration by loading environment variables and .env files.
func InitConf() {
	loadDotEnv()

	if err := env.Parse(&Conf); err != nil {
		logger.Fatal(context.Background(), err.Error())
	}
}

// AllowedOrigins returns the configured CORS origins as a slice.
func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			origins = append(origins, v)
		}
	}
	return origins
}
