package ports

import (
	"context"

	"github.com/eleven-am/failover/internal/domain"
)

type PoolState struct {
	HasPools    bool
	AllImported bool
}

// PoolInspector reports whether this node already has every pool imported.
type PoolInspector interface {
	PoolState(ctx context.Context) (PoolState, error)
}

// EventTracker reports failover events whose jobs are currently running.
type EventTracker interface {
	Running(ctx context.Context) ([]domain.FailoverEvent, error)
}
