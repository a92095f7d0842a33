package notif

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "notifpanel.v1.NotificationPanel"

// Full method names of the service.
const (
	FullMethodAdd         = "/" + ServiceName + "/Add"
	FullMethodReplace     = "/" + ServiceName + "/Replace"
	FullMethodRemove      = "/" + ServiceName + "/Remove"
	FullMethodClear       = "/" + ServiceName + "/Clear"
	FullMethodSetMute     = "/" + ServiceName + "/SetMute"
	FullMethodAckAll      = "/" + ServiceName + "/AckAll"
	FullMethodStatus      = "/" + ServiceName + "/Status"
	FullMethodWatchAckAll = "/" + ServiceName + "/WatchAckAll"
)

// PanelServer is the server API of the NotificationPanel service.
type PanelServer interface {
	Add(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Replace(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Remove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Clear(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetMute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AckAll(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	WatchAckAll(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error
}

// unaryMethod is a PanelServer method handling a unary call.
type unaryMethod func(srv PanelServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the NotificationPanel service for grpc.ServiceRegistrar.
//
//nolint:gochecknoglobals // Service descriptors are package-level by grpc convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PanelServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Add", Handler: unaryHandler(FullMethodAdd, PanelServer.Add)},
		{MethodName: "Replace", Handler: unaryHandler(FullMethodReplace, PanelServer.Replace)},
		{MethodName: "Remove", Handler: unaryHandler(FullMethodRemove, PanelServer.Remove)},
		{MethodName: "Clear", Handler: unaryHandler(FullMethodClear, PanelServer.Clear)},
		{MethodName: "SetMute", Handler: unaryHandler(FullMethodSetMute, PanelServer.SetMute)},
		{MethodName: "AckAll", Handler: unaryHandler(FullMethodAckAll, PanelServer.AckAll)},
		{MethodName: "Status", Handler: unaryHandler(FullMethodStatus, PanelServer.Status)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchAckAll",
			Handler:       watchAckAllHandler,
			ServerStreams: true,
		},
	},
	Metadata: "notifpanel/v1/notif_panel.proto",
}

// RegisterPanelServer registers the service implementation on s.
func RegisterPanelServer(s grpc.ServiceRegistrar, srv PanelServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a PanelServer method to a grpc.MethodHandler.
func unaryHandler(fullMethod string, method unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return method(srv.(PanelServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(PanelServer), ctx, req.(*structpb.Struct))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// watchAckAllHandler reads the request and hands the stream to the server.
func watchAckAllHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	return srv.(PanelServer).WatchAckAll(in, &grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}
