package failover

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eleven-am/failover/internal/adapters/observability"
	"github.com/eleven-am/failover/internal/adapters/storage"
	"github.com/eleven-am/failover/internal/adapters/transport"
	"github.com/eleven-am/failover/internal/core"
	"github.com/eleven-am/failover/internal/domain"
)

// Node is one controller of the pair: the interface configuration store, the
// peer server and client, the reconciler loop and the observability endpoint.
type Node struct {
	config   *Config
	logger   *slog.Logger
	db       *badger.DB
	store    *storage.InterfaceStore
	client   *transport.Client
	server   *transport.Server
	registry *prometheus.Registry
	observer *observability.Server
	manager  *core.Manager

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	obsDone chan error
}

type nodeOptions struct {
	pools  PoolInspector
	events EventTracker
}

type NodeOption func(*nodeOptions)

// WithPoolInspector lets event evaluation skip MASTER events when every pool
// is already imported.
func WithPoolInspector(pools PoolInspector) NodeOption {
	return func(o *nodeOptions) {
		o.pools = pools
	}
}

// WithEventTracker lets event evaluation drop duplicates of running events.
func WithEventTracker(events EventTracker) NodeOption {
	return func(o *nodeOptions) {
		o.events = events
	}
}

// NewNode opens the interface store and wires the node. When config lists
// interfaces, they replace the stored interface configuration.
func NewNode(config *Config, provider InterfaceProvider, opts ...NodeOption) (*Node, error) {
	if config == nil {
		return nil, domain.NewConfigError("config", domain.ErrInvalidInput)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if err := config.Validate(); err != nil {
		config.Logger.Error("invalid configuration", "error", err)
		return nil, err
	}
	if provider == nil {
		return nil, domain.NewConfigError("provider", domain.ErrInvalidInput)
	}

	var options nodeOptions
	for _, opt := range opts {
		opt(&options)
	}

	logger := config.Logger.With("node_id", config.NodeID)

	db, err := storage.OpenDB(config.Storage, config.DataDir, logger)
	if err != nil {
		return nil, err
	}

	n := &Node{
		config:   config,
		logger:   logger.With("component", "node"),
		db:       db,
		store:    storage.NewInterfaceStore(db, logger),
		registry: observability.NewRegistry(),
	}

	if len(config.Interfaces) > 0 {
		if err := n.store.Replace(context.Background(), config.Interfaces); err != nil {
			n.closeStorage()
			return nil, err
		}
	}

	n.client, err = transport.NewClient(config.Transport, config.NodeID, logger)
	if err != nil {
		n.closeStorage()
		return nil, err
	}

	n.manager, err = core.NewManager(core.Deps{
		Config:   config,
		Provider: provider,
		Store:    n.store,
		Peer:     n.client,
		Pools:    options.pools,
		Events:   options.events,
		Metrics:  observability.NewMetrics(n.registry),
		Logger:   logger,
	})
	if err != nil {
		n.client.Close()
		n.closeStorage()
		return nil, err
	}

	n.server = transport.NewServer(config.Transport, config.NodeID, n.manager, logger,
		transport.WithRegisterer(n.registry))

	if config.Observability.Enabled {
		n.observer = observability.NewServer(config.Observability, n.manager, n.registry, logger)
	}

	return n, nil
}

func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.started {
		return domain.ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)

	if err := n.server.Start(runCtx); err != nil {
		cancel()
		return err
	}

	if err := n.manager.Start(runCtx); err != nil {
		n.server.Stop()
		cancel()
		return err
	}

	if n.observer != nil {
		n.obsDone = make(chan error, 1)
		go func() {
			n.obsDone <- n.observer.Start(runCtx)
		}()
	}

	n.cancel = cancel
	n.started = true
	n.logger.Info("failover node started",
		"bind_addr", n.server.Addr(),
		"peer_addr", n.config.Transport.PeerAddr)
	return nil
}

// Stop shuts the node down and releases the store. A stopped node cannot be
// restarted.
func (n *Node) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var errs []error
	if n.started {
		if err := n.manager.Stop(); err != nil && !domain.IsNotStarted(err) {
			errs = append(errs, err)
		}
		if err := n.server.Stop(); err != nil {
			errs = append(errs, err)
		}
		n.cancel()
		if n.obsDone != nil {
			if err := <-n.obsDone; err != nil {
				errs = append(errs, err)
			}
		}
		n.started = false
	}

	if err := n.client.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := n.closeStorage(); err != nil {
		errs = append(errs, err)
	}

	n.logger.Info("failover node stopped")
	return errors.Join(errs...)
}

func (n *Node) closeStorage() error {
	n.store.Close()
	if n.db.IsClosed() {
		return nil
	}
	return n.db.Close()
}

func (n *Node) Manager() *Manager {
	return n.manager
}

func (n *Node) Store() InterfaceConfigStore {
	return n.store
}

func (n *Node) Status() Status {
	return n.manager.Status()
}

// Addr is the address the peer server listens on.
func (n *Node) Addr() string {
	return n.server.Addr()
}

func (n *Node) Registry() *prometheus.Registry {
	return n.registry
}
