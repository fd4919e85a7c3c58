package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL    string        `env:"NTTL_API_URL,    default=http://localhost:8000"`
	Timeout   time.Duration `env:"NTTL_TIMEOUT,    default=30s"`
	LogLevel  string        `env:"NTTL_LOG_LEVEL,  default=info"`
	LogPretty bool          `env:"NTTL_LOG_PRETTY, default=true"`

	Token TokenConfig
	AI    AIConfig
}

// TokenConfig selects where the session token is persisted between runs.
type TokenConfig struct {
	Backend string `env:"NTTL_TOKEN_BACKEND, default=file"`
	File    string `env:"NTTL_TOKEN_FILE"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"NTTL_REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"NTTL_REDIS_DB,   default=0"`
	Key  string `env:"NTTL_REDIS_KEY,  default=nttl:token"`
}

type AIConfig struct {
	PollInterval time.Duration `env:"NTTL_AI_POLL_INTERVAL, default=2s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TokenFilePath returns the configured token file, falling back to
// token.json under the user config directory.
func (c *Config) TokenFilePath() (string, error) {
	if c.Token.File != "" {
		return c.Token.File, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "nttl", "token.json"), nil
}
