package domain

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"github.com/vrischmann/envconfig"
	"gopkg.in/yaml.v3"
)

type envOverrides struct {
	NodeID       string        `envconfig:"FAILOVER_NODE_ID"`
	DataDir      string        `envconfig:"FAILOVER_DATA_DIR"`
	LogLevel     string        `envconfig:"FAILOVER_LOG_LEVEL"`
	BindAddr     string        `envconfig:"FAILOVER_BIND_ADDR"`
	PeerAddr     string        `envconfig:"FAILOVER_PEER_ADDR"`
	PollInterval time.Duration `envconfig:"FAILOVER_POLL_INTERVAL"`
}

// LoadConfig reads a YAML file on top of DefaultConfig and then applies
// FAILOVER_* environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewConfigError("file", fmt.Errorf("%w: %v", ErrInvalidInput, err))
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	var env envOverrides
	if err := envconfig.InitWithOptions(&env, envconfig.Options{AllOptional: true}); err != nil {
		return NewConfigError("env", err)
	}

	overlay := Config{
		NodeID:   env.NodeID,
		DataDir:  env.DataDir,
		LogLevel: env.LogLevel,
		Transport: TransportConfig{
			BindAddr: env.BindAddr,
			PeerAddr: env.PeerAddr,
		},
		Reconciler: ReconcilerConfig{
			PollInterval: env.PollInterval,
		},
	}

	if err := mergo.Merge(cfg, overlay, mergo.WithOverride); err != nil {
		return NewConfigError("env", err)
	}
	return nil
}
