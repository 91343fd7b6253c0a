// Package failover reconciles the failover state of the two controllers of a
// high-availability storage appliance.
//
// Each controller summarizes which of its VRRP interfaces it holds as MASTER,
// BACKUP or INIT. The summaries of both controllers are compared to find
// interfaces that are MASTER on both (split brain) or BACKUP on both (nobody
// serving). Interfaces are grouped into failover groups so that a single link
// failure inside a group can be recognized as covered by a sibling.
//
// The package only reports. It never changes VRRP state, imports pools or
// moves addresses.
//
// Basic usage:
//
//	cfg, _ := failover.LoadConfig("/etc/failover.yaml")
//	node, err := failover.NewNode(cfg, failover.NewFileProvider("/run/vrrp/interfaces.json", logger))
//	if err != nil {
//	    return err
//	}
//	node.Start(ctx)
//	defer node.Stop()
//
//	report, err := node.Manager().Reconcile(ctx)
package failover

import (
	"context"
	"log/slog"

	"github.com/eleven-am/failover/internal/adapters/snapshot"
	"github.com/eleven-am/failover/internal/core"
	"github.com/eleven-am/failover/internal/domain"
	engine "github.com/eleven-am/failover/internal/failover"
	"github.com/eleven-am/failover/internal/ports"
)

// Manager runs reconciliation passes and evaluates failover events.
type Manager = core.Manager

// Deps are the collaborators a Manager is built from.
type Deps = core.Deps

type NetworkInterface = domain.NetworkInterface

type InterfaceFilter = domain.InterfaceFilter

type LinkState = domain.LinkState

const (
	LinkStateUnknown = domain.LinkStateUnknown
	LinkStateUp      = domain.LinkStateUp
	LinkStateDown    = domain.LinkStateDown
)

type VrrpState = domain.VrrpState

const (
	VrrpNone   = domain.VrrpNone
	VrrpInit   = domain.VrrpInit
	VrrpBackup = domain.VrrpBackup
	VrrpMaster = domain.VrrpMaster
)

// NodeStateSummary is one controller's reduction of its interface snapshot.
type NodeStateSummary = domain.NodeStateSummary

type Violation = domain.Violation

type ViolationKind = domain.ViolationKind

const (
	ViolationNoFailoverInterfaces = domain.ViolationNoFailoverInterfaces
	ViolationDoubleBackup         = domain.ViolationDoubleBackup
	ViolationDoubleMaster         = domain.ViolationDoubleMaster
)

// ReconciliationResult lists violations in discovery order. Empty means the
// pair is consistent.
type ReconciliationResult = domain.ReconciliationResult

type FailoverGroups = domain.FailoverGroups

type InterfaceConfig = domain.InterfaceConfig

type FailoverEvent = domain.FailoverEvent

const (
	EventMaster        = domain.EventMaster
	EventBackup        = domain.EventBackup
	EventForceTakeover = domain.EventForceTakeover
)

type Decision = domain.Decision

type Coverage = domain.Coverage

type PassReport = domain.PassReport

type Status = domain.Status

type GroupIndex = engine.GroupIndex

type Topology = engine.Topology

type InterfaceProvider = ports.InterfaceProvider

type InterfaceConfigStore = ports.InterfaceConfigStore

type PeerTransport = ports.PeerTransport

type PoolInspector = ports.PoolInspector

type PoolState = ports.PoolState

type EventTracker = ports.EventTracker

type MetricsRecorder = ports.MetricsRecorder

// NewGroupIndex validates that no interface belongs to two groups and builds
// the member to group lookup.
func NewGroupIndex(groups FailoverGroups) (*GroupIndex, error) {
	return engine.NewGroupIndex(groups)
}

// BuildTopology derives failover groups and the non-critical and internal
// interface lists from interface configuration.
func BuildTopology(configs []InterfaceConfig) Topology {
	return engine.BuildTopology(configs)
}

// Summarize reduces a snapshot to the interfaces that participate in
// failover, partitioned by VRRP state.
func Summarize(snapshot []NetworkInterface, internal []string) NodeStateSummary {
	return engine.Summarize(snapshot, internal)
}

// CheckCoverage reports which siblings of ifname hold MASTER or BACKUP.
func CheckCoverage(ctx context.Context, provider InterfaceProvider, index *GroupIndex, ifname string) (Coverage, error) {
	return engine.CheckCoverage(ctx, provider, index, ifname)
}

// Reconcile compares the summaries of both controllers.
func Reconcile(local, remote NodeStateSummary) ReconciliationResult {
	return engine.Reconcile(local, remote)
}

func NewManager(deps Deps) (*Manager, error) {
	return core.NewManager(deps)
}

// NewFileProvider reads interface snapshots from a YAML or JSON file.
func NewFileProvider(path string, logger *slog.Logger) *snapshot.FileProvider {
	return snapshot.NewFileProvider(path, logger)
}

// NewStaticProvider serves an in-memory snapshot, replaced with Set.
func NewStaticProvider(interfaces ...NetworkInterface) *snapshot.StaticProvider {
	return snapshot.NewStaticProvider(interfaces...)
}

func IsGroupConflict(err error) bool {
	return domain.IsGroupConflict(err)
}

func IsPeerUnavailable(err error) bool {
	return domain.IsPeerUnavailable(err)
}

func IsUpstreamError(err error) bool {
	return domain.IsUpstreamError(err)
}

func IsInvalidConfig(err error) bool {
	return domain.IsInvalidConfig(err)
}
