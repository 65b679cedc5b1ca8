package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,        default=8080"`
	Env        string        `env:"ENV,         default=development"`
	LogLevel   string        `env:"LOG_LEVEL,   default=info"`
	JWTSecret  string        `env:"JWT_SECRET"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`

	SQLite SQLiteConfig
	Redis  RedisConfig
	OAuth  OAuthConfig
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/taskboard.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// OAuthConfig points at the external identity provider. The endpoints are
// configurable rather than hardcoded so any authorization-code provider
// with a userinfo endpoint works.
type OAuthConfig struct {
	ClientID     string `env:"OAUTH_CLIENT_ID"`
	ClientSecret string `env:"OAUTH_CLIENT_SECRET"`
	AuthURL      string `env:"OAUTH_AUTH_URL"`
	TokenURL     string `env:"OAUTH_TOKEN_URL"`
	UserInfoURL  string `env:"OAUTH_USERINFO_URL"`
	RedirectURL  string `env:"OAUTH_REDIRECT_URL"`
	Scopes       string `env:"OAUTH_SCOPES, default=identify email"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
