package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() domain.TransportConfig {
	cfg := domain.DefaultTransportConfig()
	cfg.BindAddr = "127.0.0.1:0"
	cfg.RetryAttempts = 2
	cfg.RetryBackoff = 10 * time.Millisecond
	cfg.RequestTimeout = time.Second
	return cfg
}

func startServer(t *testing.T, source SummaryFunc, opts ...ServerOption) *Server {
	t.Helper()
	server := NewServer(testConfig(), "node-b", source, testLogger(), opts...)
	require.NoError(t, server.Start(context.Background()))
	t.Cleanup(func() { server.Stop() })
	return server
}

func newClient(t *testing.T, addr string) *Client {
	t.Helper()
	cfg := testConfig()
	cfg.PeerAddr = addr
	client, err := NewClient(cfg, "node-a", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRoundTrip(t *testing.T) {
	want := domain.NodeStateSummary{
		Masters: []string{"eth0"},
		Backups: []string{"eth1"},
		Inits:   []string{},
	}
	server := startServer(t, func(context.Context) (domain.NodeStateSummary, error) {
		return want, nil
	}, WithRegisterer(prometheus.NewRegistry()))

	got, err := newClient(t, server.Addr()).RemoteSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRoundTrip_EmptySummaryIsNonNil(t *testing.T) {
	server := startServer(t, func(context.Context) (domain.NodeStateSummary, error) {
		return domain.NodeStateSummary{}, nil
	})

	got, err := newClient(t, server.Addr()).RemoteSummary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Masters)
	assert.NotNil(t, got.Backups)
	assert.NotNil(t, got.Inits)
	assert.True(t, got.IsEmpty())
}

func TestServer_ServesFromSummarySource(t *testing.T) {
	source := mocks.NewMockSummarySource(t)
	source.On("LocalSummary", mock.Anything).Return(domain.NodeStateSummary{Backups: []string{"eth0"}}, nil).Once()

	server := NewServer(testConfig(), "node-b", source, testLogger())
	require.NoError(t, server.Start(context.Background()))
	defer server.Stop()

	got, err := newClient(t, server.Addr()).RemoteSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"eth0"}, got.Backups)
}

func TestRemoteSummary_SourceErrorIsRetriedThenUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := startServer(t, func(context.Context) (domain.NodeStateSummary, error) {
		calls.Add(1)
		return domain.NodeStateSummary{}, errors.New("interface service down")
	})

	_, err := newClient(t, server.Addr()).RemoteSummary(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsPeerUnavailable(err))
	assert.True(t, domain.IsUpstreamError(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRemoteSummary_InvalidSummaryRejected(t *testing.T) {
	server := startServer(t, func(context.Context) (domain.NodeStateSummary, error) {
		return domain.NodeStateSummary{Masters: []string{"eth0"}, Backups: []string{"eth0"}}, nil
	})

	_, err := newClient(t, server.Addr()).RemoteSummary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, domain.IsPeerUnavailable(err))
}

func TestRemoteSummary_SelfLoopRejected(t *testing.T) {
	cfg := testConfig()
	server := NewServer(cfg, "node-a", SummaryFunc(func(context.Context) (domain.NodeStateSummary, error) {
		return domain.NodeStateSummary{}, nil
	}), testLogger())
	require.NoError(t, server.Start(context.Background()))
	defer server.Stop()

	_, err := newClient(t, server.Addr()).RemoteSummary(context.Background())
	assert.True(t, domain.IsPeerUnavailable(err))
}

func TestRemoteSummary_NoPeer(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = newClient(t, addr).RemoteSummary(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsPeerUnavailable(err))
}

func TestRemoteSummary_AfterClose(t *testing.T) {
	client := newClient(t, "127.0.0.1:1")
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.RemoteSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrClosed)
}

func TestNewClient_RequiresPeerAddr(t *testing.T) {
	_, err := NewClient(testConfig(), "node-a", nil)
	assert.True(t, domain.IsInvalidConfig(err))
}

func TestServer_Health(t *testing.T) {
	server := startServer(t, func(context.Context) (domain.NodeStateSummary, error) {
		return domain.NodeStateSummary{}, nil
	})

	conn, err := grpc.NewClient(server.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: PeerServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

func TestServer_StartTwice(t *testing.T) {
	server := startServer(t, func(context.Context) (domain.NodeStateSummary, error) {
		return domain.NodeStateSummary{}, nil
	})

	assert.True(t, domain.IsAlreadyStarted(server.Start(context.Background())))
	require.NoError(t, server.Stop())
	require.NoError(t, server.Stop())
}
