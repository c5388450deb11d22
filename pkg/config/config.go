// Package config loads runtime configuration from the environment. All
// values have documented defaults so the tool runs from cron with nothing
// but a credentials profile and a kubeconfig.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full set of runtime knobs. The core packages receive these
// as already-validated parameters; nothing below this layer reads the
// environment.
type Config struct {
	// PartialServerName is matched as a substring against instance display
	// names and must resolve to exactly one instance.
	PartialServerName string `env:"PARTIAL_SERVER_NAME" envDefault:"node2"`

	// CloudProfile names the credentials profile in the provider's shared
	// config. Empty falls back to the default credential chain.
	CloudProfile string `env:"CLOUD_PROFILE" envDefault:""`

	// Region is the provider region to operate in.
	Region string `env:"CLOUD_REGION" envDefault:""`

	// Namespaces are the cluster namespaces swept for duplicate pods.
	Namespaces []string `env:"NAMESPACES" envSeparator:"," envDefault:"production,staging,development"`

	// Kubeconfig overrides kubeconfig auto-discovery when set.
	Kubeconfig string `env:"KUBECONFIG_PATH" envDefault:""`

	// Poll budget for instance state convergence.
	PollMaxAttempts int           `env:"POLL_MAX_ATTEMPTS" envDefault:"10"`
	PollInterval    time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`

	// Retry budget for transient connection failures.
	RetryMaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"RETRY_INTERVAL" envDefault:"5s"`
	RetryFactor      float64       `env:"RETRY_BACKOFF_FACTOR" envDefault:"2"`

	// Node readiness gate after a start action.
	NodeReadyMaxAttempts int           `env:"NODE_READY_MAX_ATTEMPTS" envDefault:"60"`
	NodeReadyInterval    time.Duration `env:"NODE_READY_INTERVAL" envDefault:"10s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (best effort) and the process environment.
func Load() (*Config, error) {
	// A missing .env file is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return cfg, nil
}
