// Package mcpapi exposes the calculator as MCP tools.
package mcpapi

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/xtding233/raisehell/internal/service"
)

// Calculator is what the tools need from the service layer.
type Calculator interface {
	Distribution(ctx context.Context, req service.DistributionRequest) (service.DistributionResult, error)
	HitChance(ctx context.Context, req service.HitChanceRequest) (service.HitChanceResult, error)
	Simulate(ctx context.Context, req service.SimulateRequest) (service.SimulateResult, error)
}

// Server wraps the calculator in an MCP server.
type Server struct {
	calc      Calculator
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools.
func NewServer(calc Calculator, version string) *Server {
	s := &Server{
		calc:      calc,
		mcpServer: server.NewMCPServer("raisehell-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func poolParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("preset", mcp.Description("Named deck preset; the numeric fields override it")),
		mcp.WithNumber("triggers", mcp.Description("Hellraiser triggers pending at the start (default 1)")),
		mcp.WithNumber("pool_size", mcp.Description("Cards in the graveyard")),
		mcp.WithNumber("primary", mcp.Description("Season cards in the graveyard")),
		mcp.WithNumber("toggle", mcp.Description("Beacon cards in the graveyard (default 0)")),
		mcp.WithNumber("secondary", mcp.Description("Flameshaper cards in the graveyard (default 0)")),
	}
}

func (s *Server) registerTools() {
	// TOOL: outcome_distribution
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Exact probability of each number of extra Hellraisers a cascade produces."),
	}, poolParams()...)
	opts = append(opts,
		mcp.WithBoolean("parallel", mcp.Description("Spread the enumeration over the server's workers")),
		mcp.WithOutputSchema[service.DistributionResult](),
	)
	s.mcpServer.AddTool(mcp.NewTool("outcome_distribution", opts...),
		mcp.NewStructuredToolHandler(s.handleDistribution))

	// TOOL: hit_chance
	s.mcpServer.AddTool(mcp.NewTool("hit_chance",
		mcp.WithDescription("Chance that at least one of several three-card draws finds a marked card."),
		mcp.WithNumber("hits", mcp.Required(), mcp.Description("Marked cards in the pool")),
		mcp.WithNumber("pool_size", mcp.Required(), mcp.Description("Cards in the pool")),
		mcp.WithNumber("triggers", mcp.Description("Number of draws (default 1)")),
		mcp.WithOutputSchema[service.HitChanceResult](),
	), mcp.NewStructuredToolHandler(s.handleHitChance))

	// TOOL: simulate_hit
	s.mcpServer.AddTool(mcp.NewTool("simulate_hit",
		mcp.WithDescription("Draw three random cards once and report whether a marked card came up."),
		mcp.WithNumber("hits", mcp.Required(), mcp.Description("Marked cards in the pool")),
		mcp.WithNumber("pool_size", mcp.Required(), mcp.Description("Cards in the pool")),
		mcp.WithNumber("seed", mcp.Description("Seed for a reproducible draw")),
		mcp.WithOutputSchema[service.SimulateResult](),
	), mcp.NewStructuredToolHandler(s.handleSimulate))
}

func (s *Server) handleDistribution(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (service.DistributionResult, error) {
	var req service.DistributionRequest
	if err := decodeArgs(args, &req); err != nil {
		return service.DistributionResult{}, err
	}
	res, err := s.calc.Distribution(ctx, req)
	if err != nil {
		return service.DistributionResult{}, fmt.Errorf("distribution failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleHitChance(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (service.HitChanceResult, error) {
	var req service.HitChanceRequest
	if err := decodeArgs(args, &req); err != nil {
		return service.HitChanceResult{}, err
	}
	res, err := s.calc.HitChance(ctx, req)
	if err != nil {
		return service.HitChanceResult{}, fmt.Errorf("hit chance failed: %w", err)
	}
	return res, nil
}

func (s *Server) handleSimulate(ctx context.Context, _ mcp.CallToolRequest, args map[string]any) (service.SimulateResult, error) {
	var req service.SimulateRequest
	if err := decodeArgs(args, &req); err != nil {
		return service.SimulateResult{}, err
	}
	res, err := s.calc.Simulate(ctx, req)
	if err != nil {
		return service.SimulateResult{}, fmt.Errorf("simulate failed: %w", err)
	}
	return res, nil
}

func decodeArgs(args map[string]any, out any) error {
	if err := service.DecodeRequest(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
