package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are google.protobuf.Struct documents, the service needs no generated code.
const (
	PairingServiceName      = "chatpair.v1.PairingService"
	PairingDispatchMethod   = "/" + PairingServiceName + "/Dispatch"
	PairingConnectMethod    = "/" + PairingServiceName + "/Connect"
	pairingServiceProtoPath = "chatpair/v1/pairing.proto"
)

// PairingServiceServer is the server API for the pairing service.
type PairingServiceServer interface {
	// Dispatch submits one command: {handle, command, payload}.
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Connect opens the outbound stream of a handle: {handle, locale}.
	Connect(*structpb.Struct, PairingService_ConnectServer) error
}

type PairingService_ConnectServer interface {
	Send(*structpb.Struct) error
	grpc.ServerStream
}

type pairingServiceConnectServer struct {
	grpc.ServerStream
}

func (x *pairingServiceConnectServer) Send(m *structpb.Struct) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterPairingServiceServer(s grpc.ServiceRegistrar, srv PairingServiceServer) {
	s.RegisterService(&PairingService_ServiceDesc, srv)
}

func _PairingService_Dispatch_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PairingServiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PairingDispatchMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PairingServiceServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _PairingService_Connect_Handler(srv any, stream grpc.ServerStream) error {
	m := new(structpb.Struct)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(PairingServiceServer).Connect(m, &pairingServiceConnectServer{ServerStream: stream})
}

var PairingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PairingServiceName,
	HandlerType: (*PairingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Dispatch",
			Handler:    _PairingService_Dispatch_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       _PairingService_Connect_Handler,
			ServerStreams: true,
		},
	},
	Metadata: pairingServiceProtoPath,
}

// PairingServiceClient is the client API for the pairing service.
type PairingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPairingServiceClient(cc grpc.ClientConnInterface) *PairingServiceClient {
	return &PairingServiceClient{cc: cc}
}

func (c *PairingServiceClient) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PairingDispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type PairingService_ConnectClient interface {
	Recv() (*structpb.Struct, error)
	grpc.ClientStream
}

type pairingServiceConnectClient struct {
	grpc.ClientStream
}

func (x *pairingServiceConnectClient) Recv() (*structpb.Struct, error) {
	m := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *PairingServiceClient) Connect(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (PairingService_ConnectClient, error) {
	stream, err := c.cc.NewStream(ctx, &PairingService_ServiceDesc.Streams[0], PairingConnectMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &pairingServiceConnectClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
