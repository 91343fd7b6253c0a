package domain

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return NewConfigFromSimple("node-a", "10.0.0.2:6010", "/tmp/failover", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing node id", func(c *Config) { c.NodeID = "" }, "node_id"},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, "data_dir"},
		{"nil logger", func(c *Config) { c.Logger = nil }, "logger"},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
		{"zero poll interval", func(c *Config) { c.Reconciler.PollInterval = 0 }, "reconciler.poll_interval"},
		{"negative burst", func(c *Config) { c.Reconciler.WarnBurst = -1 }, "reconciler.warn_burst"},
		{"missing bind addr", func(c *Config) { c.Transport.BindAddr = "" }, "transport.bind_addr"},
		{"missing peer addr", func(c *Config) { c.Transport.PeerAddr = "" }, "transport.peer_addr"},
		{"tls without key", func(c *Config) { c.WithTLS("cert.pem", "", "") }, "transport.tls"},
		{"bad metrics port", func(c *Config) { c.Observability.Port = 0 }, "observability.port"},
		{"unnamed interface", func(c *Config) { c.WithInterfaces(InterfaceConfig{Critical: true}) }, "interfaces.name"},
		{"duplicate interface", func(c *Config) {
			c.WithInterfaces(InterfaceConfig{Name: "eth0", Group: 1}, InterfaceConfig{Name: "eth0", Group: 2})
		}, "interfaces"},
	}

	require.NoError(t, validConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsInvalidConfig(err))

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestConfig_DuplicateInterfaceIsGroupConflict(t *testing.T) {
	cfg := validConfig().WithInterfaces(
		InterfaceConfig{Name: "eth0", Critical: true, Group: 1},
		InterfaceConfig{Name: "eth0", Critical: true, Group: 2},
	)
	assert.True(t, IsGroupConflict(cfg.Validate()))
}

func TestConfig_InMemoryNeedsNoDataDir(t *testing.T) {
	cfg := validConfig()
	cfg.DataDir = ""
	cfg.Storage.InMemory = true
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromSimple_NilLogger(t *testing.T) {
	cfg := NewConfigFromSimple("node-a", "peer:6010", "/tmp", nil)
	require.NotNil(t, cfg.Logger)
	assert.Equal(t, DefaultReconcilerConfig(), cfg.Reconciler)
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failover.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_id: node-a
log_level: debug
failover:
  master: true
interfaces:
  - name: eth0
    critical: true
    group: 1
  - name: eth1
    critical: true
    group: 1
internal_interfaces: [ntb0]
reconciler:
  poll_interval: 10s
transport:
  peer_addr: 10.0.0.2:6010
`), 0o600))

	t.Setenv("FAILOVER_PEER_ADDR", "10.0.0.3:6010")
	t.Setenv("FAILOVER_POLL_INTERVAL", "2s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "node-a", cfg.NodeID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Failover.Master)
	assert.Len(t, cfg.Interfaces, 2)
	assert.Equal(t, []string{"ntb0"}, cfg.InternalInterfaces)
	assert.Equal(t, "10.0.0.3:6010", cfg.Transport.PeerAddr)
	assert.Equal(t, 2*time.Second, cfg.Reconciler.PollInterval)
	assert.Equal(t, DefaultTransportConfig().BindAddr, cfg.Transport.BindAddr, "unset values keep their defaults")
	assert.Equal(t, DefaultReconcilerConfig().PassTimeout, cfg.Reconciler.PassTimeout)
}

func TestLoadConfig_NoFile(t *testing.T) {
	t.Setenv("FAILOVER_NODE_ID", "node-b")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "node-b", cfg.NodeID)
	assert.Equal(t, DefaultConfig().DataDir, cfg.DataDir)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("node_id: [unterminated"), 0o600))
	_, err = LoadConfig(path)
	assert.True(t, IsInvalidConfig(err))
}
