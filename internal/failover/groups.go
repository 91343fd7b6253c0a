package failover

import (
	"strconv"

	"github.com/eleven-am/failover/internal/domain"
)

// Topology is the failover view of the interface configuration.
type Topology struct {
	Groups      domain.FailoverGroups
	NonCritical []string
	Internal    []string
}

// BuildTopology groups critical interfaces by their configured group id. A
// critical interface without a positive group id stays ungrouped, which means
// it has no redundant path. Internal interfaces are never grouped.
func BuildTopology(configs []domain.InterfaceConfig) Topology {
	topo := Topology{
		Groups:      make(domain.FailoverGroups),
		NonCritical: []string{},
		Internal:    []string{},
	}

	for _, cfg := range configs {
		switch {
		case cfg.Internal:
			topo.Internal = append(topo.Internal, cfg.Name)
		case !cfg.Critical:
			topo.NonCritical = append(topo.NonCritical, cfg.Name)
		case cfg.Group > 0:
			key := strconv.Itoa(cfg.Group)
			topo.Groups[key] = append(topo.Groups[key], cfg.Name)
		}
	}

	return topo
}

// Index builds the group index for the topology.
func (t Topology) Index() (*GroupIndex, error) {
	return NewGroupIndex(t.Groups)
}

func (t Topology) IsNonCritical(name string) bool {
	for _, n := range t.NonCritical {
		if n == name {
			return true
		}
	}
	return false
}
