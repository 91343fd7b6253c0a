package failover

import (
	"log/slog"
	"time"

	"github.com/eleven-am/failover/internal/domain"
)

type Config = domain.Config

type FailoverConfig = domain.FailoverConfig

type ReconcilerConfig = domain.ReconcilerConfig

type TransportConfig = domain.TransportConfig

type StorageConfig = domain.StorageConfig

type ObservabilityConfig = domain.ObservabilityConfig

type ConfigError = domain.ConfigError

func DefaultConfig() *Config {
	return domain.DefaultConfig()
}

func DefaultReconcilerConfig() ReconcilerConfig {
	return domain.DefaultReconcilerConfig()
}

func DefaultTransportConfig() TransportConfig {
	return domain.DefaultTransportConfig()
}

func DefaultStorageConfig() StorageConfig {
	return domain.DefaultStorageConfig()
}

func DefaultObservabilityConfig() ObservabilityConfig {
	return domain.DefaultObservabilityConfig()
}

// LoadConfig reads a YAML config file over the defaults and applies FAILOVER_*
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	return domain.LoadConfig(path)
}

func ParseLogLevel(level string) (slog.Level, error) {
	return domain.ParseLogLevel(level)
}

type ConfigBuilder struct {
	config *Config
}

func NewConfigBuilder(nodeID, peerAddr, dataDir string) *ConfigBuilder {
	config := DefaultConfig()
	config.NodeID = nodeID
	config.Transport.PeerAddr = peerAddr
	config.DataDir = dataDir
	return &ConfigBuilder{config: config}
}

func (cb *ConfigBuilder) WithBindAddr(bindAddr string) *ConfigBuilder {
	cb.config.Transport.BindAddr = bindAddr
	return cb
}

func (cb *ConfigBuilder) WithTLS(certFile, keyFile, caFile string) *ConfigBuilder {
	cb.config.WithTLS(certFile, keyFile, caFile)
	return cb
}

func (cb *ConfigBuilder) WithInterfaces(ifaces ...InterfaceConfig) *ConfigBuilder {
	cb.config.WithInterfaces(ifaces...)
	return cb
}

func (cb *ConfigBuilder) WithInternalInterfaces(names ...string) *ConfigBuilder {
	cb.config.WithInternalInterfaces(names...)
	return cb
}

func (cb *ConfigBuilder) WithPollInterval(interval time.Duration) *ConfigBuilder {
	cb.config.WithPollInterval(interval)
	return cb
}

func (cb *ConfigBuilder) WithFailover(disabled, master bool) *ConfigBuilder {
	cb.config.WithFailover(disabled, master)
	return cb
}

func (cb *ConfigBuilder) WithInMemoryStorage() *ConfigBuilder {
	cb.config.Storage.InMemory = true
	return cb
}

func (cb *ConfigBuilder) WithObservability(enabled bool, port int) *ConfigBuilder {
	cb.config.Observability.Enabled = enabled
	cb.config.Observability.Port = port
	return cb
}

func (cb *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	cb.config.LogLevel = level
	return cb
}

func (cb *ConfigBuilder) Build() *Config {
	return cb.config
}
