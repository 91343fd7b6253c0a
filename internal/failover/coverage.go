package failover

import (
	"context"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
)

// CheckCoverage reports which siblings of ifname currently hold MASTER or
// BACKUP, using the provider's current snapshot. An ungrouped interface has no
// siblings and therefore no redundancy; the provider is not queried for it.
func CheckCoverage(ctx context.Context, provider ports.InterfaceProvider, index *GroupIndex, ifname string) (domain.Coverage, error) {
	group, ok := index.GroupOf(ifname)
	if !ok {
		return emptyCoverage(ifname, ""), nil
	}

	siblings := index.Siblings(ifname)
	if len(siblings) == 0 {
		return emptyCoverage(ifname, group), nil
	}

	snapshot, err := provider.Query(ctx, domain.InterfaceFilter{Names: siblings})
	if err != nil {
		return emptyCoverage(ifname, group), domain.NewUpstreamError("interface provider", "query", err)
	}

	return CoverageFrom(ifname, group, siblings, snapshot), nil
}

// CoverageFrom partitions siblings by their state in snapshot. Siblings absent
// from the snapshot, in INIT, or without VRRP are counted in neither list. No
// link or internal filtering is applied here.
func CoverageFrom(ifname, group string, siblings []string, snapshot []domain.NetworkInterface) domain.Coverage {
	cov := emptyCoverage(ifname, group)

	states := make(map[string]domain.VrrpState, len(snapshot))
	for _, iface := range snapshot {
		if _, ok := states[iface.Name]; !ok {
			states[iface.Name] = iface.VrrpState
		}
	}

	for _, name := range siblings {
		if name == ifname {
			continue
		}
		switch states[name] {
		case domain.VrrpMaster:
			cov.Masters = append(cov.Masters, name)
		case domain.VrrpBackup:
			cov.Backups = append(cov.Backups, name)
		}
	}
	return cov
}

func emptyCoverage(ifname, group string) domain.Coverage {
	return domain.Coverage{
		Interface: ifname,
		Group:     group,
		Masters:   []string{},
		Backups:   []string{},
	}
}
