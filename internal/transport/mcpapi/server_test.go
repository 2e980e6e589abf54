package mcpapi

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/raisehell/internal/cascade"
	"github.com/xtding233/raisehell/internal/service"
)

func newServer() *Server {
	return NewServer(service.New(), "test")
}

func TestHandleDistribution(t *testing.T) {
	s := newServer()
	// JSON numbers arrive as float64.
	res, err := s.handleDistribution(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"pool_size": 15.0,
		"primary":   1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, cascade.Pool{Size: 15, Primary: 1}, res.Inputs.Pool)
	assert.InDelta(t, 0.2, res.Probabilities[2], 1e-12)
}

func TestHandleHitChance(t *testing.T) {
	s := newServer()
	res, err := s.handleHitChance(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"hits":      2.0,
		"pool_size": 14.0,
		"triggers":  1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "39.56%", res.Percent)

	_, err = s.handleHitChance(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"hits":      20.0,
		"pool_size": 14.0,
	})
	assert.ErrorIs(t, err, cascade.ErrInvalidPool)
}

func TestHandleSimulate(t *testing.T) {
	s := newServer()
	res, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"hits":      0.0,
		"pool_size": 9.0,
		"seed":      1.0,
	})
	require.NoError(t, err)
	assert.False(t, res.Hit)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]any{"hits": 1.0, "pool_size": 9.0, "extra": "x"})
	assert.ErrorContains(t, err, "invalid arguments")
}

func TestHandlers_RejectInexactNumbers(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	_, err := s.handleHitChance(ctx, mcp.CallToolRequest{}, map[string]any{"hits": 1.7, "pool_size": 4294967299.0})
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = s.handleHitChance(ctx, mcp.CallToolRequest{}, map[string]any{"hits": 1.0, "pool_size": 4294967299.0})
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]any{"hits": 1.0, "pool_size": 9.0, "seed": -3.0})
	assert.ErrorIs(t, err, service.ErrInvalidRequest)

	_, err = s.handleDistribution(ctx, mcp.CallToolRequest{}, map[string]any{"pool_size": 15.5, "primary": 1.0})
	assert.ErrorContains(t, err, "invalid arguments")
}
