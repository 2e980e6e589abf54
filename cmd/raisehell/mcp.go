package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/xtding233/raisehell/internal/transport/mcpapi"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the calculator as a Model Context Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := loadDeps(cmd)
			if err != nil {
				return err
			}
			// Stdout carries JSON-RPC.
			log.SetOutput(os.Stderr)
			deps.logger.Info("starting MCP server (stdio)")
			return mcpapi.NewServer(deps.calculator(nil), version).ServeStdio()
		},
	}
}
