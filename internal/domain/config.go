package domain

import (
	"log/slog"
	"time"
)

type Config struct {
	NodeID   string       `json:"node_id" yaml:"node_id"`
	DataDir  string       `json:"data_dir" yaml:"data_dir"`
	LogLevel string       `json:"log_level" yaml:"log_level"`
	Logger   *slog.Logger `json:"-" yaml:"-"`

	Failover           FailoverConfig      `json:"failover" yaml:"failover"`
	Interfaces         []InterfaceConfig   `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	InternalInterfaces []string            `json:"internal_interfaces,omitempty" yaml:"internal_interfaces,omitempty"`
	Reconciler         ReconcilerConfig    `json:"reconciler" yaml:"reconciler"`
	Transport          TransportConfig     `json:"transport" yaml:"transport"`
	Storage            StorageConfig       `json:"storage" yaml:"storage"`
	Observability      ObservabilityConfig `json:"observability" yaml:"observability"`
}

// FailoverConfig mirrors the HA settings an administrator controls.
type FailoverConfig struct {
	Disabled bool          `json:"disabled" yaml:"disabled"`
	Master   bool          `json:"master" yaml:"master"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

type ReconcilerConfig struct {
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`
	PassTimeout  time.Duration `json:"pass_timeout" yaml:"pass_timeout"`
	// WarnInterval bounds how often an inconsistent pair is logged at warn level.
	WarnInterval time.Duration `json:"warn_interval" yaml:"warn_interval"`
	WarnBurst    int           `json:"warn_burst" yaml:"warn_burst"`
}

type TransportConfig struct {
	BindAddr          string        `json:"bind_addr" yaml:"bind_addr"`
	PeerAddr          string        `json:"peer_addr" yaml:"peer_addr"`
	EnableTLS         bool          `json:"enable_tls" yaml:"enable_tls"`
	TLSCertFile       string        `json:"tls_cert_file,omitempty" yaml:"tls_cert_file,omitempty"`
	TLSKeyFile        string        `json:"tls_key_file,omitempty" yaml:"tls_key_file,omitempty"`
	TLSCAFile         string        `json:"tls_ca_file,omitempty" yaml:"tls_ca_file,omitempty"`
	MaxMessageSizeMB  int           `json:"max_message_size_mb" yaml:"max_message_size_mb"`
	ConnectionTimeout time.Duration `json:"connection_timeout" yaml:"connection_timeout"`
	RequestTimeout    time.Duration `json:"request_timeout" yaml:"request_timeout"`
	RetryAttempts     uint          `json:"retry_attempts" yaml:"retry_attempts"`
	RetryBackoff      time.Duration `json:"retry_backoff" yaml:"retry_backoff"`
}

type StorageConfig struct {
	InMemory   bool   `json:"in_memory" yaml:"in_memory"`
	Dir        string `json:"dir" yaml:"dir"`
	SyncWrites bool   `json:"sync_writes" yaml:"sync_writes"`
}

type ObservabilityConfig struct {
	Enabled      bool          `json:"enabled" yaml:"enabled"`
	Port         int           `json:"port" yaml:"port"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}
