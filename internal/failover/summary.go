package failover

import (
	"github.com/eleven-am/failover/internal/domain"
)

// Summarize reduces one node's snapshot to its masters, backups and inits.
//
// Internal interfaces (flagged, or named in internal) and interfaces without
// VRRP are irrelevant to failover. A VRRP role seen on a link that is not UP is
// stale, so those interfaces are dropped as well. When a name appears more
// than once the first entry wins.
func Summarize(snapshot []domain.NetworkInterface, internal []string) domain.NodeStateSummary {
	skip := make(map[string]struct{}, len(internal))
	for _, name := range internal {
		skip[name] = struct{}{}
	}

	summary := domain.NodeStateSummary{
		Masters: []string{},
		Backups: []string{},
		Inits:   []string{},
	}
	seen := make(map[string]struct{}, len(snapshot))

	for _, iface := range snapshot {
		if _, dup := seen[iface.Name]; dup {
			continue
		}
		seen[iface.Name] = struct{}{}

		if iface.Internal || !iface.HasVrrp() {
			continue
		}
		if _, ok := skip[iface.Name]; ok {
			continue
		}
		if !iface.IsUp() {
			continue
		}

		switch iface.VrrpState {
		case domain.VrrpMaster:
			summary.Masters = append(summary.Masters, iface.Name)
		case domain.VrrpBackup:
			summary.Backups = append(summary.Backups, iface.Name)
		case domain.VrrpInit:
			summary.Inits = append(summary.Inits, iface.Name)
		}
	}

	return summary
}
