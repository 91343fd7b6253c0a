package ports

import (
	"context"

	"github.com/eleven-am/failover/internal/domain"
)

// InterfaceProvider returns the current interface snapshot of this node. The
// VRRP state of each interface must already be resolved to a single value.
type InterfaceProvider interface {
	Query(ctx context.Context, filter domain.InterfaceFilter) ([]domain.NetworkInterface, error)
}

// InterfaceConfigStore holds the failover configuration of interfaces:
// criticality, group membership and internal links.
type InterfaceConfigStore interface {
	Get(ctx context.Context, name string) (domain.InterfaceConfig, error)
	Put(ctx context.Context, cfg domain.InterfaceConfig) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]domain.InterfaceConfig, error)
	Close() error
}
