package rpc

import (
	"context"

	"google.golang.org/grpc"

	"go.klb.dev/clipy/internal/message"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "clipy.v1.History"

// HistoryServer is the server API of the History service.
type HistoryServer interface {
	List(context.Context, *message.ListRequest) (*message.ListResponse, error)
	TogglePin(context.Context, *message.ItemRequest) (*message.ItemResponse, error)
	Delete(context.Context, *message.ItemRequest) (*message.Empty, error)
	Restore(context.Context, *message.ItemRequest) (*message.ItemResponse, error)
	Copy(context.Context, *message.CopyRequest) (*message.Empty, error)
	Status(context.Context, *message.StatusRequest) (*message.StatusResponse, error)
	Watch(*message.WatchRequest, grpc.ServerStreamingServer[message.Event]) error
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

// unary builds a MethodDesc that decodes Req, runs call and honours the
// server's unary interceptor.
func unary[Req, Resp any](name string, call func(HistoryServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HistoryServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(HistoryServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func watchHandler(srv any, stream grpc.ServerStream) error {
	in := new(message.WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(HistoryServer).Watch(in, &grpc.GenericServerStream[message.WatchRequest, message.Event]{ServerStream: stream})
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HistoryServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("List", HistoryServer.List),
		unary("TogglePin", HistoryServer.TogglePin),
		unary("Delete", HistoryServer.Delete),
		unary("Restore", HistoryServer.Restore),
		unary("Copy", HistoryServer.Copy),
		unary("Status", HistoryServer.Status),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Watch",
			Handler:       watchHandler,
			ServerStreams: true,
		},
	},
	Metadata: "clipy/v1/history",
}

// Register attaches srv to s.
func Register(s grpc.ServiceRegistrar, srv HistoryServer) {
	s.RegisterService(&serviceDesc, srv)
}

// NewServer returns a gRPC server speaking the JSON codec with srv
// registered.
func NewServer(srv HistoryServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ForceServerCodec(Codec{})}, opts...)
	s := grpc.NewServer(opts...)
	Register(s, srv)
	return s
}
