package transport

import (
	"context"
	"time"

	"github.com/eleven-am/failover/internal/domain"
	"google.golang.org/grpc"
)

const (
	PeerServiceName  = "failover.PeerService"
	getSummaryMethod = "/" + PeerServiceName + "/GetSummary"
)

type SummaryRequest struct {
	NodeID string `json:"node_id"`
}

type SummaryResponse struct {
	NodeID      string                  `json:"node_id"`
	Summary     domain.NodeStateSummary `json:"summary"`
	GeneratedAt time.Time               `json:"generated_at"`
}

type peerServiceServer interface {
	GetSummary(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error)
}

var peerServiceDesc = grpc.ServiceDesc{
	ServiceName: PeerServiceName,
	HandlerType: (*peerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSummary",
			Handler:    getSummaryHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "failover/peer.json",
}

func getSummaryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SummaryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(peerServiceServer).GetSummary(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getSummaryMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(peerServiceServer).GetSummary(ctx, req.(*SummaryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// SummaryFunc adapts a plain function to ports.SummarySource.
type SummaryFunc func(ctx context.Context) (domain.NodeStateSummary, error)

func (f SummaryFunc) LocalSummary(ctx context.Context) (domain.NodeStateSummary, error) {
	return f(ctx)
}
