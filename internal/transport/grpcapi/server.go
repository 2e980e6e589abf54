// Package grpcapi serves the calculator over gRPC.
package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/raisehell/internal/cascade"
	"github.com/xtding233/raisehell/internal/preset"
	"github.com/xtding233/raisehell/internal/sampler"
	"github.com/xtding233/raisehell/internal/service"
)

// Calculator is what the gRPC handlers need from the service layer.
type Calculator interface {
	Distribution(ctx context.Context, req service.DistributionRequest) (service.DistributionResult, error)
	HitChance(ctx context.Context, req service.HitChanceRequest) (service.HitChanceResult, error)
	Simulate(ctx context.Context, req service.SimulateRequest) (service.SimulateResult, error)
}

// Server hosts the calculator and gRPC health services.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *slog.Logger
}

// NewServer registers calc and the health service on a new gRPC server.
func NewServer(calc Calculator, logger *slog.Logger) *Server {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	RegisterCalculatorServer(grpcServer, &calculatorServer{calc: calc})
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	return &Server{grpcServer: grpcServer, health: healthServer, logger: logger}
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info("grpc server listening", "addr", lis.Addr().String())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

type calculatorServer struct {
	calc Calculator
}

func (s *calculatorServer) Distribution(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.DistributionRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	res, err := s.calc.Distribution(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *calculatorServer) HitChance(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.HitChanceRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	res, err := s.calc.HitChance(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

func (s *calculatorServer) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.SimulateRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	res, err := s.calc.Simulate(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

// decode maps a Struct onto a request. Struct numbers are doubles, so
// seeds above 2^53 lose precision.
func decode(in *structpb.Struct, out any) error {
	if err := service.DecodeRequest(in.AsMap(), out); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, preset.ErrPresetNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrLimitExceeded):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, cascade.ErrInvalidPool),
		errors.Is(err, preset.ErrInvalidPreset),
		errors.Is(err, sampler.ErrPoolTooSmall),
		errors.Is(err, sampler.ErrInvalidTrials):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
