// Package config loads server configuration from the environment.
package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the incident hub server.
type Config struct {
	// BindAddr is tried first; PortCandidates are the fallbacks when it is
	// taken and PortAutoFallback is on.
	BindAddr         string   `envconfig:"IH_BIND_ADDR" default:"127.0.0.1:8080"`
	PortCandidates   []string `envconfig:"IH_PORT_CANDIDATES" default:"127.0.0.1:8080,127.0.0.1:8081,127.0.0.1:8082"`
	PortAutoFallback bool     `envconfig:"IH_PORT_AUTO_FALLBACK" default:"true"`

	// RedisURL selects the durable backend. Empty means in-memory storage,
	// which only makes sense for local development.
	RedisURL string `envconfig:"IH_REDIS_URL"`

	DefaultTenant string `envconfig:"IH_DEFAULT_TENANT" default:"utec"`

	// Fan-out behavior.
	BroadcastConcurrency int `envconfig:"IH_BROADCAST_CONCURRENCY" default:"8"`
	SendTimeoutMS        int `envconfig:"IH_SEND_TIMEOUT_MS" default:"3000"`

	// AuditDir enables the JSONL audit trail of report events when set.
	AuditDir string `envconfig:"IH_AUDIT_DIR"`

	LogLevel string `envconfig:"IH_LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"IH_LOG_FILE" default:"logs/incident-hub.log"`
}

// Load reads configuration from environment variables and an optional .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
