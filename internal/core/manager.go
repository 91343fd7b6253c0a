package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/failover"
	"github.com/eleven-am/failover/internal/ports"
	"github.com/eleven-am/failover/internal/readiness"
)

// Deps are the collaborators of a Manager. Pools, Events and Metrics are
// optional.
type Deps struct {
	Config   *domain.Config
	Provider ports.InterfaceProvider
	Store    ports.InterfaceConfigStore
	Peer     ports.PeerTransport
	Pools    ports.PoolInspector
	Events   ports.EventTracker
	Metrics  ports.MetricsRecorder
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Manager runs reconciliation passes between this node and its peer and
// evaluates failover events against the current group coverage. It reports;
// it never changes VRRP state.
type Manager struct {
	config   *domain.Config
	provider ports.InterfaceProvider
	store    ports.InterfaceConfigStore
	peer     ports.PeerTransport
	pools    ports.PoolInspector
	events   ports.EventTracker
	metrics  ports.MetricsRecorder
	logger   *slog.Logger
	now      func() time.Time

	readiness   *readiness.Manager
	warnLimiter *rate.Limiter

	mu      sync.RWMutex
	status  domain.Status
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewManager(deps Deps) (*Manager, error) {
	if deps.Config == nil {
		return nil, domain.NewConfigError("config", domain.ErrInvalidInput)
	}
	if deps.Provider == nil {
		return nil, domain.NewConfigError("provider", domain.ErrInvalidInput)
	}
	if deps.Store == nil {
		return nil, domain.NewConfigError("store", domain.ErrInvalidInput)
	}
	if deps.Peer == nil {
		return nil, domain.NewConfigError("peer", domain.ErrInvalidInput)
	}

	logger := deps.Logger
	if logger == nil {
		logger = deps.Config.Logger
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics := deps.Metrics
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	warnLimit := rate.Inf
	if deps.Config.Reconciler.WarnInterval > 0 {
		warnLimit = rate.Every(deps.Config.Reconciler.WarnInterval)
	}
	burst := deps.Config.Reconciler.WarnBurst
	if burst <= 0 {
		burst = 1
	}

	return &Manager{
		config:      deps.Config,
		provider:    deps.Provider,
		store:       deps.Store,
		peer:        deps.Peer,
		pools:       deps.Pools,
		events:      deps.Events,
		metrics:     metrics,
		logger:      logger.With("component", "reconciler", "node_id", deps.Config.NodeID),
		now:         clock,
		readiness:   readiness.NewManager(),
		warnLimiter: rate.NewLimiter(warnLimit, burst),
		status: domain.Status{
			NodeID:    deps.Config.NodeID,
			PeerAddr:  deps.Config.Transport.PeerAddr,
			Readiness: readiness.StateStarting.String(),
		},
	}, nil
}

// Topology reads the interface configuration from the store. Names listed in
// the config's internal_interfaces are added to the internal set.
func (m *Manager) Topology(ctx context.Context) (failover.Topology, error) {
	configs, err := m.store.List(ctx)
	if err != nil {
		return failover.Topology{}, domain.NewUpstreamError("interface store", "list", err)
	}

	topo := failover.BuildTopology(configs)
	for _, name := range m.config.InternalInterfaces {
		if !containsName(topo.Internal, name) {
			topo.Internal = append(topo.Internal, name)
		}
	}
	return topo, nil
}

// LocalSummary summarizes this node's current interface snapshot.
func (m *Manager) LocalSummary(ctx context.Context) (domain.NodeStateSummary, error) {
	topo, err := m.Topology(ctx)
	if err != nil {
		return domain.NodeStateSummary{}, err
	}

	snapshot, err := m.provider.Query(ctx, domain.InterfaceFilter{})
	if err != nil {
		return domain.NodeStateSummary{}, domain.NewUpstreamError("interface provider", "query", err)
	}

	return failover.Summarize(snapshot, topo.Internal), nil
}

// Reconcile runs one pass: summarize locally, fetch the peer summary and
// compare them. A returned error means the pass could not compare anything;
// violations are reported in the PassReport, never as errors.
func (m *Manager) Reconcile(ctx context.Context) (domain.PassReport, error) {
	report := domain.PassReport{
		PassID:     uuid.NewString(),
		StartedAt:  m.now(),
		Violations: domain.ReconciliationResult{},
	}
	logger := m.logger.With("pass_id", report.PassID)

	if m.config.Reconciler.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.Reconciler.PassTimeout)
		defer cancel()
	}

	local, err := m.LocalSummary(ctx)
	if err != nil {
		logger.Error("failed to summarize local interfaces", "error", err)
		return m.finishPass(report, err), err
	}
	report.Local = local

	remote, err := m.peer.RemoteSummary(ctx)
	if err != nil {
		m.metrics.ObservePeerError()
		logger.Warn("failed to obtain peer summary", "peer", m.config.Transport.PeerAddr, "error", err)
		return m.finishPass(report, err), err
	}
	report.Remote = &remote

	result := failover.Reconcile(local, remote)
	report.Violations = result
	report = m.finishPass(report, nil)
	m.metrics.ObservePass(result, report.Duration)

	if result.Consistent() {
		logger.Debug("failover pair consistent",
			"masters", len(local.Masters),
			"backups", len(local.Backups),
			"duration", report.Duration)
		return report, nil
	}

	level := slog.LevelDebug
	if m.warnLimiter.Allow() {
		level = slog.LevelWarn
	}
	for _, v := range result {
		logger.Log(ctx, level, "failover state inconsistent",
			"kind", v.Kind.String(),
			"ifname", v.Interface,
			"violation", v.Message)
	}
	return report, nil
}

func (m *Manager) finishPass(report domain.PassReport, err error) domain.PassReport {
	report.Duration = m.now().Sub(report.StartedAt)
	if err != nil {
		report.Error = err.Error()
	}

	// Readiness and status change together under m.mu.
	m.mu.Lock()
	defer m.mu.Unlock()

	next := readiness.StateReady
	if err != nil {
		next = readiness.StateWaitingForPeer
		if current := m.readiness.GetState(); current == readiness.StateReady || current == readiness.StateDegraded {
			next = readiness.StateDegraded
		}
	}
	if m.readiness.SetState(next) {
		m.logger.Info("reconciler readiness changed", "state", next.String())
	}

	m.status.Passes++
	if err != nil {
		m.status.FailedPasses++
		m.status.ConsecutiveFailures++
	} else {
		m.status.ConsecutiveFailures = 0
	}
	m.status.Readiness = next.String()
	m.status.Ready = next == readiness.StateReady
	stored := report
	m.status.LastPass = &stored
	return report
}

// EvaluateEvent decides whether a failover event on ifname should be acted
// upon, given the coverage of its siblings on this node. Each collaborator is
// consulted only once the gates before it have passed, so an event that is
// ignored early never fails on a later lookup.
func (m *Manager) EvaluateEvent(ctx context.Context, ifname string, event domain.FailoverEvent) (domain.Decision, error) {
	logger := m.logger.With("ifname", ifname, "event", event.String())

	input := failover.EventInput{
		Interface: ifname,
		Event:     event,
		Failover:  m.config.Failover,
	}
	if d, settled := failover.Check(input, failover.GateDisabled); settled {
		return m.decided(logger, d, domain.Coverage{}), nil
	}

	topo, err := m.Topology(ctx)
	if err != nil {
		return domain.Decision{}, err
	}
	input.NonCritical = topo.NonCritical
	if d, settled := failover.Check(input, failover.GateNonCritical); settled {
		return m.decided(logger, d, domain.Coverage{}), nil
	}

	if m.pools != nil && event == domain.EventMaster {
		state, err := m.pools.PoolState(ctx)
		if err != nil {
			return domain.Decision{}, domain.NewUpstreamError("pool inspector", "pool state", err)
		}
		input.HasPools = state.HasPools
		input.PoolsImported = state.AllImported
		if d, settled := failover.Check(input, failover.GatePools); settled {
			return m.decided(logger, d, domain.Coverage{}), nil
		}
	}

	if m.events != nil {
		running, err := m.events.Running(ctx)
		if err != nil {
			return domain.Decision{}, domain.NewUpstreamError("event tracker", "running", err)
		}
		input.Running = running
		if d, settled := failover.Check(input, failover.GateDuplicate); settled {
			return m.decided(logger, d, domain.Coverage{}), nil
		}
	}

	if event == domain.EventMaster || event == domain.EventBackup {
		index, err := topo.Index()
		if err != nil {
			logger.Error("invalid failover group configuration", "error", err)
			return domain.Decision{}, err
		}

		input.Coverage, err = failover.CheckCoverage(ctx, m.provider, index, ifname)
		if err != nil {
			logger.Error("failed to check group coverage", "error", err)
			return domain.Decision{}, err
		}
	}

	return m.decided(logger, failover.Decide(input), input.Coverage), nil
}

func (m *Manager) decided(logger *slog.Logger, decision domain.Decision, coverage domain.Coverage) domain.Decision {
	m.metrics.ObserveDecision(decision)

	logger.Info("failover event evaluated",
		"action", decision.Action.String(),
		"reason", decision.Reason,
		"group", coverage.Group,
		"sibling_masters", coverage.Masters,
		"sibling_backups", coverage.Backups)
	return decision
}

// Start runs a pass immediately and then every PollInterval until ctx is
// cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return domain.ErrAlreadyStarted
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.running = true
	m.cancel = cancel
	m.done = make(chan struct{})
	m.status.Running = true
	m.status.StartedAt = m.now()
	if m.readiness.GetState() == readiness.StateStarting && m.readiness.SetState(readiness.StateWaitingForPeer) {
		m.status.Readiness = readiness.StateWaitingForPeer.String()
		m.status.Ready = false
	}
	done := m.done
	m.mu.Unlock()

	m.logger.Info("reconciler starting",
		"poll_interval", m.config.Reconciler.PollInterval,
		"peer", m.config.Transport.PeerAddr)

	go m.loop(loopCtx, done)
	return nil
}

func (m *Manager) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.config.Reconciler.PollInterval)
	defer ticker.Stop()

	for {
		m.Reconcile(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
		}
	}
}

func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return domain.ErrNotStarted
	}
	m.running = false
	m.status.Running = false
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	cancel()
	<-done
	return nil
}

func (m *Manager) Status() domain.Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := m.status
	if status.LastPass != nil {
		last := *status.LastPass
		status.LastPass = &last
	}
	return status
}

func (m *Manager) Readiness() *readiness.Manager {
	return m.readiness
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
