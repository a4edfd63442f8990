package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "followups.v1.FollowupService"

// Full method names.
const (
	MethodExtract     = "/" + ServiceName + "/Extract"
	MethodSaveHistory = "/" + ServiceName + "/SaveHistory"
	MethodListHistory = "/" + ServiceName + "/ListHistory"
	MethodExportXLSX  = "/" + ServiceName + "/ExportXLSX"
	MethodExportPDF   = "/" + ServiceName + "/ExportPDF"
)

// FollowupServer is the server API for followups.v1.FollowupService. Requests
// and structured responses are google.protobuf.Struct documents; exports are
// returned as raw bytes.
type FollowupServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportXLSX(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	ExportPDF(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
}

func unary[Resp any](method string, call func(FollowupServer, context.Context, *structpb.Struct) (Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method[len(ServiceName)+2:],
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FollowupServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(FollowupServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// FollowupServiceDesc is the grpc.ServiceDesc for followups.v1.FollowupService.
var FollowupServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FollowupServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodExtract, FollowupServer.Extract),
		unary(MethodSaveHistory, FollowupServer.SaveHistory),
		unary(MethodListHistory, FollowupServer.ListHistory),
		unary(MethodExportXLSX, FollowupServer.ExportXLSX),
		unary(MethodExportPDF, FollowupServer.ExportPDF),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "followups/v1/followups.proto",
}

func RegisterFollowupServer(s grpc.ServiceRegistrar, srv FollowupServer) {
	s.RegisterService(&FollowupServiceDesc, srv)
}

// FollowupClient calls followups.v1.FollowupService.
type FollowupClient struct {
	cc grpc.ClientConnInterface
}

func NewFollowupClient(cc grpc.ClientConnInterface) *FollowupClient {
	return &FollowupClient{cc: cc}
}

func (c *FollowupClient) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodExtract, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FollowupClient) SaveHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodSaveHistory, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FollowupClient) ListHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodListHistory, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FollowupClient) ExportXLSX(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, MethodExportXLSX, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FollowupClient) ExportPDF(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, MethodExportPDF, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
