package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avast/retry-go/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
)

var _ ports.PeerTransport = (*Client)(nil)

// Client fetches the peer controller's summary over gRPC.
type Client struct {
	logger *slog.Logger
	config domain.TransportConfig
	nodeID string

	mu     sync.Mutex
	conn   *grpc.ClientConn
	closed bool
}

// NewClient prepares a client for config.PeerAddr. The connection is
// established lazily on the first request.
func NewClient(config domain.TransportConfig, nodeID string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PeerAddr == "" {
		return nil, domain.NewConfigError("transport.peer_addr", domain.ErrInvalidInput)
	}

	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if config.EnableTLS {
		tlsCreds, err := loadClientTLSCredentials(config)
		if err != nil {
			return nil, domain.NewConfigError("transport.tls", err)
		}
		creds = tlsCreds
	}

	callOpts := []grpc.CallOption{grpc.CallContentSubtype(codecName)}
	if config.MaxMessageSizeMB > 0 {
		callOpts = append(callOpts, grpc.MaxCallRecvMsgSize(config.MaxMessageSizeMB*1024*1024))
	}

	conn, err := grpc.NewClient(config.PeerAddr,
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(callOpts...),
		grpc.WithConnectParams(connectParams(config)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create peer client for %s: %w", config.PeerAddr, err)
	}

	return &Client{
		logger: logger.With("component", "peer-client", "peer", config.PeerAddr),
		config: config,
		nodeID: nodeID,
		conn:   conn,
	}, nil
}

// RemoteSummary asks the peer for its summary, retrying transient failures
// with exponential backoff. Every failure to obtain a usable summary wraps
// domain.ErrPeerUnavailable.
func (c *Client) RemoteSummary(ctx context.Context) (domain.NodeStateSummary, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return domain.NodeStateSummary{}, domain.NewUpstreamError("peer", "get summary", fmt.Errorf("%w: %w", domain.ErrPeerUnavailable, domain.ErrClosed))
	}

	attempts := c.config.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}

	var resp SummaryResponse
	err := retry.Do(
		func() error {
			callCtx, cancel := c.requestContext(ctx)
			defer cancel()

			resp = SummaryResponse{}
			return c.conn.Invoke(callCtx, getSummaryMethod, &SummaryRequest{NodeID: c.nodeID}, &resp)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.config.RetryBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying peer summary request", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return domain.NodeStateSummary{}, domain.NewUpstreamError("peer", "get summary", fmt.Errorf("%w: %w", domain.ErrPeerUnavailable, err))
	}

	if resp.NodeID != "" && resp.NodeID == c.nodeID {
		return domain.NodeStateSummary{}, domain.NewUpstreamError("peer", "get summary",
			fmt.Errorf("%w: peer address %s answers with this node's id %q", domain.ErrPeerUnavailable, c.config.PeerAddr, c.nodeID))
	}

	if err := resp.Summary.Validate(); err != nil {
		return domain.NodeStateSummary{}, domain.NewUpstreamError("peer", "get summary", fmt.Errorf("%w: %w", domain.ErrPeerUnavailable, err))
	}

	c.logger.Debug("received peer summary",
		"peer_node", resp.NodeID,
		"masters", len(resp.Summary.Masters),
		"backups", len(resp.Summary.Backups),
		"inits", len(resp.Summary.Inits))
	return normalize(resp.Summary), nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// connectParams keeps the reconnect backoff of the channel in step with the
// request retry backoff, so a peer that comes back is noticed by the next pass.
func connectParams(config domain.TransportConfig) grpc.ConnectParams {
	cfg := backoff.DefaultConfig
	if config.RetryBackoff > 0 {
		cfg.BaseDelay = config.RetryBackoff
	}
	if config.ConnectionTimeout > 0 {
		cfg.MaxDelay = config.ConnectionTimeout
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}

	params := grpc.ConnectParams{Backoff: cfg}
	if config.ConnectionTimeout > 0 {
		params.MinConnectTimeout = config.ConnectionTimeout
	}
	return params
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, c.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

// normalize replaces nil sets decoded from an omitted JSON field with empty
// ones so callers never see nil.
func normalize(s domain.NodeStateSummary) domain.NodeStateSummary {
	if s.Masters == nil {
		s.Masters = []string{}
	}
	if s.Backups == nil {
		s.Backups = []string{}
	}
	if s.Inits == nil {
		s.Inits = []string{}
	}
	return s
}

