package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "raisehell.v1.Calculator"

const (
	methodDistribution = "/" + ServiceName + "/Distribution"
	methodHitChance    = "/" + ServiceName + "/HitChance"
	methodSimulate     = "/" + ServiceName + "/Simulate"
)

// CalculatorServer is the server API for raisehell.v1.Calculator. Requests
// and responses are google.protobuf.Struct documents whose keys match the
// JSON API.
type CalculatorServer interface {
	Distribution(context.Context, *structpb.Struct) (*structpb.Struct, error)
	HitChance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

func unaryHandler(method string, call func(CalculatorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CalculatorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Distribution",
			Handler:    unaryHandler(methodDistribution, CalculatorServer.Distribution),
		},
		{
			MethodName: "HitChance",
			Handler:    unaryHandler(methodHitChance, CalculatorServer.HitChance),
		},
		{
			MethodName: "Simulate",
			Handler:    unaryHandler(methodSimulate, CalculatorServer.Simulate),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "raisehell/v1/calculator.proto",
}

// CalculatorClient is the client API for raisehell.v1.Calculator.
type CalculatorClient struct {
	cc grpc.ClientConnInterface
}

func NewCalculatorClient(cc grpc.ClientConnInterface) *CalculatorClient {
	return &CalculatorClient{cc: cc}
}

func (c *CalculatorClient) Distribution(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodDistribution, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CalculatorClient) HitChance(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodHitChance, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CalculatorClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodSimulate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
