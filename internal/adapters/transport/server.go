package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
)

const gracefulStopTimeout = 5 * time.Second

// Server answers the peer's summary requests with this node's summary.
type Server struct {
	logger  *slog.Logger
	config  domain.TransportConfig
	nodeID  string
	source  ports.SummarySource
	metrics *grpc_prometheus.ServerMetrics

	mu       sync.RWMutex
	server   *grpc.Server
	listener net.Listener
	health   *health.Server
	started  bool
}

type ServerOption func(*Server)

// WithRegisterer exports gRPC server metrics through reg.
func WithRegisterer(reg prometheus.Registerer) ServerOption {
	return func(s *Server) {
		if reg == nil {
			return
		}
		metrics := grpc_prometheus.NewServerMetrics()
		if err := reg.Register(metrics); err != nil {
			s.logger.Warn("failed to register gRPC server metrics", "error", err)
			return
		}
		s.metrics = metrics
	}
}

func NewServer(config domain.TransportConfig, nodeID string, source ports.SummarySource, logger *slog.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		logger: logger.With("component", "peer-server"),
		config: config,
		nodeID: nodeID,
		source: source,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return domain.ErrAlreadyStarted
	}

	listener, err := net.Listen("tcp", s.config.BindAddr)
	if err != nil {
		s.logger.Error("failed to listen", "address", s.config.BindAddr, "error", err)
		return fmt.Errorf("failed to listen on %s: %w", s.config.BindAddr, err)
	}

	unary := []grpc.UnaryServerInterceptor{s.loggingInterceptor}
	if s.metrics != nil {
		unary = append(unary, s.metrics.UnaryServerInterceptor())
	}

	serverOpts := []grpc.ServerOption{
		grpc.UnaryInterceptor(grpc_middleware.ChainUnaryServer(unary...)),
	}

	if s.config.MaxMessageSizeMB > 0 {
		size := s.config.MaxMessageSizeMB * 1024 * 1024
		serverOpts = append(serverOpts,
			grpc.MaxRecvMsgSize(size),
			grpc.MaxSendMsgSize(size),
		)
	}

	if s.config.EnableTLS {
		creds, err := loadServerTLSCredentials(s.config)
		if err != nil {
			listener.Close()
			s.logger.Error("failed to load TLS credentials", "error", err)
			return err
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
	}

	s.server = grpc.NewServer(serverOpts...)
	s.server.RegisterService(&peerServiceDesc, s)

	s.health = health.NewServer()
	s.health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(PeerServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(s.server, s.health)

	if s.metrics != nil {
		s.metrics.InitializeMetrics(s.server)
	}

	s.listener = listener
	s.started = true

	server := s.server
	go func() {
		s.logger.Info("peer server starting", "address", listener.Addr().String())
		if err := server.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			s.logger.Error("peer server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Addr is the bound listen address, which differs from the configured one
// when the configured port is 0.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.config.BindAddr
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	s.logger.Info("stopping peer server")
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(gracefulStopTimeout):
		s.logger.Warn("graceful stop timed out, forcing")
		s.server.Stop()
	}

	s.logger.Info("peer server stopped")
	return nil
}

func (s *Server) GetSummary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error) {
	summary, err := s.source.LocalSummary(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Unavailable, "local summary unavailable: %v", err)
	}

	return &SummaryResponse{
		NodeID:      s.nodeID,
		Summary:     summary,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

func (s *Server) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	if err != nil {
		s.logger.Warn("request failed",
			"method", info.FullMethod,
			"duration_ms", time.Since(start).Milliseconds(),
			"code", status.Code(err).String(),
			"error", err)
		return resp, err
	}

	s.logger.Debug("request completed",
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds())
	return resp, err
}
