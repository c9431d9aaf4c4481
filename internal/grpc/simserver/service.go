package simserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "goldfish.v1.SimulationService"

// Full method names
const (
	MethodRunExperiment = "/" + ServiceName + "/RunExperiment"
	MethodRunScenario   = "/" + ServiceName + "/RunScenario"
	MethodListRuns      = "/" + ServiceName + "/ListRuns"
	MethodGetRun        = "/" + ServiceName + "/GetRun"
)

// SimulationServiceServer is the server API for the simulation service.
// Requests and responses are google.protobuf.Struct documents.
type SimulationServiceServer interface {
	RunExperiment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RunScenario(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListRuns(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRun(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterSimulationServiceServer registers srv with s
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&SimulationService_ServiceDesc, srv)
}

func unaryHandler(method string, call func(SimulationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(SimulationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SimulationService_ServiceDesc is the grpc.ServiceDesc for the simulation service
var SimulationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RunExperiment",
			Handler:    unaryHandler(MethodRunExperiment, SimulationServiceServer.RunExperiment),
		},
		{
			MethodName: "RunScenario",
			Handler:    unaryHandler(MethodRunScenario, SimulationServiceServer.RunScenario),
		},
		{
			MethodName: "ListRuns",
			Handler:    unaryHandler(MethodListRuns, SimulationServiceServer.ListRuns),
		},
		{
			MethodName: "GetRun",
			Handler:    unaryHandler(MethodGetRun, SimulationServiceServer.GetRun),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "goldfish/v1/simulation.proto",
}

// SimulationServiceClient is the client API for the simulation service
type SimulationServiceClient interface {
	RunExperiment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RunScenario(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListRuns(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetRun(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type simulationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulationServiceClient creates a client on cc
func NewSimulationServiceClient(cc grpc.ClientConnInterface) SimulationServiceClient {
	return &simulationServiceClient{cc: cc}
}

func (c *simulationServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) RunExperiment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRunExperiment, in, opts...)
}

func (c *simulationServiceClient) RunScenario(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRunScenario, in, opts...)
}

func (c *simulationServiceClient) ListRuns(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListRuns, in, opts...)
}

func (c *simulationServiceClient) GetRun(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetRun, in, opts...)
}
