package snapshot

import (
	"context"
	"sync"

	"github.com/eleven-am/failover/internal/domain"
	"github.com/eleven-am/failover/internal/ports"
)

var _ ports.InterfaceProvider = (*StaticProvider)(nil)

// StaticProvider serves an in-memory snapshot that callers replace with Set.
type StaticProvider struct {
	mu         sync.RWMutex
	interfaces []domain.NetworkInterface
}

func NewStaticProvider(interfaces ...domain.NetworkInterface) *StaticProvider {
	p := &StaticProvider{}
	p.Set(interfaces...)
	return p
}

func (p *StaticProvider) Set(interfaces ...domain.NetworkInterface) {
	cp := make([]domain.NetworkInterface, len(interfaces))
	copy(cp, interfaces)

	p.mu.Lock()
	p.interfaces = cp
	p.mu.Unlock()
}

// Update replaces the stored entry for iface.Name, or appends it.
func (p *StaticProvider) Update(iface domain.NetworkInterface) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.interfaces {
		if p.interfaces[i].Name == iface.Name {
			p.interfaces[i] = iface
			return
		}
	}
	p.interfaces = append(p.interfaces, iface)
}

func (p *StaticProvider) Query(ctx context.Context, filter domain.InterfaceFilter) ([]domain.NetworkInterface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return filterInterfaces(p.interfaces, filter), nil
}

func filterInterfaces(interfaces []domain.NetworkInterface, filter domain.InterfaceFilter) []domain.NetworkInterface {
	out := make([]domain.NetworkInterface, 0, len(interfaces))
	for _, iface := range interfaces {
		if filter.Matches(iface.Name) {
			out = append(out, iface)
		}
	}
	return out
}
