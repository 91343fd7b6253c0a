package domain

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

func DefaultConfig() *Config {
	return &Config{
		DataDir:       "/var/db/failover",
		LogLevel:      "info",
		Failover:      DefaultFailoverConfig(),
		Reconciler:    DefaultReconcilerConfig(),
		Transport:     DefaultTransportConfig(),
		Storage:       DefaultStorageConfig(),
		Observability: DefaultObservabilityConfig(),
	}
}

func DefaultFailoverConfig() FailoverConfig {
	return FailoverConfig{
		Disabled: false,
		Master:   false,
		Timeout:  0,
	}
}

func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		PollInterval: 5 * time.Second,
		PassTimeout:  4 * time.Second,
		WarnInterval: 30 * time.Second,
		WarnBurst:    3,
	}
}

func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		BindAddr:          "0.0.0.0:6010",
		EnableTLS:         false,
		MaxMessageSizeMB:  1,
		ConnectionTimeout: 5 * time.Second,
		RequestTimeout:    2 * time.Second,
		RetryAttempts:     3,
		RetryBackoff:      200 * time.Millisecond,
	}
}

func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		InMemory:   false,
		Dir:        "interfaces",
		SyncWrites: true,
	}
}

func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:      true,
		Port:         9110,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func NewConfigFromSimple(nodeID, peerAddr, dataDir string, logger *slog.Logger) *Config {
	config := DefaultConfig()
	config.NodeID = nodeID
	config.Transport.PeerAddr = peerAddr
	config.DataDir = dataDir
	config.Logger = logger

	if logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return config
}

func (c *Config) WithInterfaces(ifaces ...InterfaceConfig) *Config {
	c.Interfaces = append(c.Interfaces, ifaces...)
	return c
}

func (c *Config) WithInternalInterfaces(names ...string) *Config {
	c.InternalInterfaces = append(c.InternalInterfaces, names...)
	return c
}

func (c *Config) WithTLS(certFile, keyFile, caFile string) *Config {
	c.Transport.EnableTLS = true
	c.Transport.TLSCertFile = certFile
	c.Transport.TLSKeyFile = keyFile
	c.Transport.TLSCAFile = caFile
	return c
}

func (c *Config) WithPollInterval(interval time.Duration) *Config {
	c.Reconciler.PollInterval = interval
	return c
}

func (c *Config) WithFailover(disabled, master bool) *Config {
	c.Failover.Disabled = disabled
	c.Failover.Master = master
	return c
}

func (c *Config) Validate() error {
	if c.NodeID == "" {
		return NewConfigError("node_id", ErrInvalidInput)
	}
	if c.DataDir == "" && !c.Storage.InMemory {
		return NewConfigError("data_dir", ErrInvalidInput)
	}
	if c.Logger == nil {
		return NewConfigError("logger", ErrInvalidInput)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return NewConfigError("log_level", err)
	}
	if c.Reconciler.PollInterval <= 0 {
		return NewConfigError("reconciler.poll_interval", ErrInvalidInput)
	}
	if c.Reconciler.WarnBurst < 0 {
		return NewConfigError("reconciler.warn_burst", ErrInvalidInput)
	}
	if c.Transport.BindAddr == "" {
		return NewConfigError("transport.bind_addr", ErrInvalidInput)
	}
	if c.Transport.PeerAddr == "" {
		return NewConfigError("transport.peer_addr", ErrInvalidInput)
	}
	if c.Transport.EnableTLS && (c.Transport.TLSCertFile == "" || c.Transport.TLSKeyFile == "") {
		return NewConfigError("transport.tls", ErrInvalidInput)
	}
	if c.Observability.Enabled && c.Observability.Port <= 0 {
		return NewConfigError("observability.port", ErrInvalidInput)
	}

	seen := make(map[string]int, len(c.Interfaces))
	for _, iface := range c.Interfaces {
		if iface.Name == "" {
			return NewConfigError("interfaces.name", ErrInvalidInput)
		}
		if prev, ok := seen[iface.Name]; ok {
			return NewConfigError("interfaces", NewGroupConflictError(iface.Name,
				fmt.Sprint(prev), fmt.Sprint(iface.Group)))
		}
		seen[iface.Name] = iface.Group
	}
	return nil
}

func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidInput, level)
}

type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config field %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{
		Field: field,
		Err:   err,
	}
}
