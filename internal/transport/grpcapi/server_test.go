package grpcapi

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/raisehell/internal/logging"
	"github.com/xtding233/raisehell/internal/service"
)

func dial(t *testing.T) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	calc := service.New(service.WithLimits(service.Limits{PoolSize: 40}))
	srv := NewServer(calc, logging.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestDistribution(t *testing.T) {
	client := NewCalculatorClient(dial(t))
	out, err := client.Distribution(context.Background(), mustStruct(t, map[string]any{
		"pool_size": 15,
		"primary":   1,
	}))
	require.NoError(t, err)

	probs := out.Fields["probabilities"].GetListValue().GetValues()
	require.Len(t, probs, 3)
	assert.InDelta(t, 0.8, probs[0].GetNumberValue(), 1e-12)
	assert.InDelta(t, 0.2, probs[2].GetNumberValue(), 1e-12)
	assert.Equal(t, 2.0, out.Fields["max_outcome"].GetNumberValue())
}

func TestHitChanceAndSimulate(t *testing.T) {
	client := NewCalculatorClient(dial(t))
	ctx := context.Background()

	out, err := client.HitChance(ctx, mustStruct(t, map[string]any{"hits": 2, "pool_size": 14}))
	require.NoError(t, err)
	assert.Equal(t, "39.56%", out.Fields["percent"].GetStringValue())

	out, err = client.Simulate(ctx, mustStruct(t, map[string]any{"hits": 3, "pool_size": 3, "seed": 9}))
	require.NoError(t, err)
	assert.True(t, out.Fields["hit"].GetBoolValue())
}

func TestErrorCodes(t *testing.T) {
	client := NewCalculatorClient(dial(t))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want codes.Code
	}{
		{"unknown field", func() error {
			_, err := client.Distribution(ctx, mustStruct(t, map[string]any{"pool_size": 10, "primary": 1, "bogus": true}))
			return err
		}, codes.InvalidArgument},
		{"negative count", func() error {
			_, err := client.HitChance(ctx, mustStruct(t, map[string]any{"hits": -1, "pool_size": 10}))
			return err
		}, codes.InvalidArgument},
		{"fractional count", func() error {
			_, err := client.HitChance(ctx, mustStruct(t, map[string]any{"hits": 1.7, "pool_size": 10}))
			return err
		}, codes.InvalidArgument},
		{"count overflows uint32", func() error {
			_, err := client.HitChance(ctx, mustStruct(t, map[string]any{"hits": 1, "pool_size": 4294967299}))
			return err
		}, codes.InvalidArgument},
		{"fractional override", func() error {
			_, err := client.Distribution(ctx, mustStruct(t, map[string]any{"pool_size": 10, "primary": 1.5}))
			return err
		}, codes.InvalidArgument},
		{"hits exceed pool", func() error {
			_, err := client.HitChance(ctx, mustStruct(t, map[string]any{"hits": 11, "pool_size": 10}))
			return err
		}, codes.InvalidArgument},
		{"over limit", func() error {
			_, err := client.Distribution(ctx, mustStruct(t, map[string]any{"pool_size": 41, "primary": 1}))
			return err
		}, codes.ResourceExhausted},
		{"unknown preset", func() error {
			_, err := client.Distribution(ctx, mustStruct(t, map[string]any{"preset": "missing"}))
			return err
		}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(tt.call()))
		})
	}
}

func TestHealth(t *testing.T) {
	hc := grpc_health_v1.NewHealthClient(dial(t))
	resp, err := hc.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}
