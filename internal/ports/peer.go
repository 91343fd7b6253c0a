package ports

import (
	"context"

	"github.com/eleven-am/failover/internal/domain"
)

// PeerTransport fetches the summary the peer controller computed from its own
// interfaces.
type PeerTransport interface {
	RemoteSummary(ctx context.Context) (domain.NodeStateSummary, error)
	Close() error
}

// SummarySource is served to the peer by the transport server.
type SummarySource interface {
	LocalSummary(ctx context.Context) (domain.NodeStateSummary, error)
}
