// Package proto holds the keeper.v1.Keeper service description and client
// stub, written in the shape protoc-gen-go-grpc generates. Payloads are JSON
// documents carried in wrapperspb.BytesValue so the envelope types in
// internal/api stay the single wire definition.
package proto

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	KeeperServiceName          = "keeper.v1.Keeper"
	KeeperCallFullMethod       = "/keeper.v1.Keeper/Call"
	KeeperGetAccountFullMethod = "/keeper.v1.Keeper/GetAccount"
	KeeperSessionFullMethod    = "/keeper.v1.Keeper/Session"
)

// DecodeError reports a request message that could not be decoded. It is
// passed through the interceptor chain like any handler error.
type DecodeError struct {
	Method string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type KeeperServer interface {
	Call(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
	GetAccount(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
	Session(*wrapperspb.BytesValue, grpc.ServerStreamingServer[wrapperspb.BytesValue]) error
}

// decodeFailed runs the interceptor chain around a handler that only reports
// the decode failure, so the chain sees every error.
func decodeFailed(ctx context.Context, info *grpc.UnaryServerInfo, interceptor grpc.UnaryServerInterceptor, err error) (any, error) {
	decErr := &DecodeError{Method: info.FullMethod, Err: err}
	if interceptor == nil {
		return nil, decErr
	}
	return interceptor(ctx, nil, info, func(context.Context, any) (any, error) {
		return nil, decErr
	})
}

func keeperCallHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: KeeperCallFullMethod}
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return decodeFailed(ctx, info, interceptor, err)
	}
	if interceptor == nil {
		return srv.(KeeperServer).Call(ctx, in)
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KeeperServer).Call(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func keeperGetAccountHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: KeeperGetAccountFullMethod}
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return decodeFailed(ctx, info, interceptor, err)
	}
	if interceptor == nil {
		return srv.(KeeperServer).GetAccount(ctx, in)
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(KeeperServer).GetAccount(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// keeperSessionHandler receives the init message inside the stream
// interceptor chain.
func keeperSessionHandler(srv any, stream grpc.ServerStream) error {
	in := new(wrapperspb.BytesValue)
	if err := stream.RecvMsg(in); err != nil {
		return &DecodeError{Method: KeeperSessionFullMethod, Err: err}
	}
	return srv.(KeeperServer).Session(in, &grpc.GenericServerStream[wrapperspb.BytesValue, wrapperspb.BytesValue]{ServerStream: stream})
}

var KeeperServiceDesc = grpc.ServiceDesc{
	ServiceName: KeeperServiceName,
	HandlerType: (*KeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: keeperCallHandler},
		{MethodName: "GetAccount", Handler: keeperGetAccountHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Session", Handler: keeperSessionHandler, ServerStreams: true},
	},
	Metadata: "keeper/v1/keeper.proto",
}

// KeeperClient is the client stub for KeeperServiceDesc.
type KeeperClient interface {
	Call(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	GetAccount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Session(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error)
}

type keeperClient struct {
	cc grpc.ClientConnInterface
}

func NewKeeperClient(cc grpc.ClientConnInterface) KeeperClient {
	return &keeperClient{cc: cc}
}

func (c *keeperClient) Call(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, KeeperCallFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keeperClient) GetAccount(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, KeeperGetAccountFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *keeperClient) Session(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (grpc.ServerStreamingClient[wrapperspb.BytesValue], error) {
	stream, err := c.cc.NewStream(ctx, &KeeperServiceDesc.Streams[0], KeeperSessionFullMethod, opts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[wrapperspb.BytesValue, wrapperspb.BytesValue]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
